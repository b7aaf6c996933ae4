package main

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/Revivalution/jn-dual-create/internal/dualcreate"
)

var (
	addJobFile        string
	addJobContactID   string
	addJobName        string
	addJobDescription string
	addJobFlags       tenantFlags
)

var addJobCmd = &cobra.Command{
	Use:   "add-job",
	Short: "Attach a new job to an existing contact",
	RunE: func(cmd *cobra.Command, args []string) error {
		tenant, err := addJobFlags.tenant()
		if err != nil {
			return err
		}

		var in dualcreate.AddJobInput
		if addJobFile != "" {
			if err := readInput(addJobFile, cmd.InOrStdin(), &in); err != nil {
				return err
			}
		}
		if addJobContactID != "" {
			in.ContactID = addJobContactID
		}
		if addJobName != "" {
			in.JobName = addJobName
		}
		if addJobDescription != "" {
			in.Job.Description = addJobDescription
		}
		if strings.TrimSpace(in.ContactID) == "" {
			return eris.New("add-job: --contact-id or a contactId in --file is required")
		}

		orch, err := buildOrchestrator(cfg)
		if err != nil {
			return err
		}

		res, err := orch.AddJob(cmd.Context(), tenant, in)
		if err != nil {
			return eris.Wrap(err, "add-job")
		}
		return writeOutput(cmd.OutOrStdout(), addJobFlags.format, res)
	},
}

func init() {
	addJobCmd.Flags().StringVarP(&addJobFile, "file", "f", "", "input document path, - for stdin")
	addJobCmd.Flags().StringVar(&addJobContactID, "contact-id", "", "id of the existing contact")
	addJobCmd.Flags().StringVar(&addJobName, "job-name", "", "job name (default derived from the contact)")
	addJobCmd.Flags().StringVar(&addJobDescription, "description", "", "job description")
	addTenantFlags(addJobCmd, &addJobFlags)
	rootCmd.AddCommand(addJobCmd)
}
