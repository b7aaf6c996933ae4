package api

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/Revivalution/jn-dual-create/internal/dualcreate"
)

type createCustomerAndJobRequest struct {
	Contact dualcreate.ContactInput `json:"contact"`
	Job     dualcreate.JobInput     `json:"job"`
}

type refBody struct {
	ID     string `json:"id"`
	Number string `json:"number,omitempty"`
	Name   string `json:"name,omitempty"`
}

type createCustomerAndJobResponse struct {
	OK             bool    `json:"ok"`
	Customer       refBody `json:"customer"`
	Job            refBody `json:"job"`
	ContactCreated bool    `json:"contactCreated"`
	MatchedBy      string  `json:"matchedBy,omitempty"`
}

type addJobResponse struct {
	OK  bool    `json:"ok"`
	Job refBody `json:"job"`
}

type healthResponse struct {
	OK bool  `json:"ok"`
	TS int64 `json:"ts"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{OK: true, TS: s.cfg.Now().UnixMilli()})
}

func (s *Server) handleCreateCustomerAndJob(w http.ResponseWriter, r *http.Request) {
	var req createCustomerAndJobRequest
	if !s.bind(w, r, &req) {
		return
	}

	res, err := s.orch.DualCreate(r.Context(), tenantFrom(r.Context()), req.Contact, req.Job)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, createCustomerAndJobResponse{
		OK:             true,
		Customer:       refBody{ID: res.Customer.ID, Number: res.Customer.Number},
		Job:            refBody{ID: res.Job.ID, Number: res.Job.Number},
		ContactCreated: res.ContactCreated,
		MatchedBy:      res.MatchedBy,
	})
}

func (s *Server) handleAddJob(w http.ResponseWriter, r *http.Request) {
	var req dualcreate.AddJobInput
	if !s.bind(w, r, &req) {
		return
	}
	req.ContactID = strings.TrimSpace(req.ContactID)
	if req.ContactID == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "contactId is required"})
		return
	}

	res, err := s.orch.AddJob(r.Context(), tenantFrom(r.Context()), req)
	if errors.Is(err, dualcreate.ErrContactNotFound) {
		logger(r.Context()).Info("api: add-job contact not found", zap.String("contact_id", req.ContactID))
		writeJSON(w, http.StatusNotFound, notFoundBody{Error: "Contact not found", ContactID: req.ContactID})
		return
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, addJobResponse{
		OK:  true,
		Job: refBody{ID: res.Job.ID, Number: res.Job.Number, Name: res.Job.Name},
	})
}
