package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/Revivalution/jn-dual-create/internal/dualcreate"
)

type createInput struct {
	Contact dualcreate.ContactInput `json:"contact" yaml:"contact"`
	Job     dualcreate.JobInput     `json:"job" yaml:"job"`
}

var (
	createFile  string
	createFlags tenantFlags
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Find or create a contact and attach a new job",
	Long:  "Reads {contact, job} as JSON or YAML from --file (or stdin with -) and runs the same dual-create flow as the HTTP gateway.",
	RunE: func(cmd *cobra.Command, args []string) error {
		tenant, err := createFlags.tenant()
		if err != nil {
			return err
		}

		var in createInput
		if err := readInput(createFile, cmd.InOrStdin(), &in); err != nil {
			return err
		}

		orch, err := buildOrchestrator(cfg)
		if err != nil {
			return err
		}

		res, err := orch.DualCreate(cmd.Context(), tenant, in.Contact, in.Job)
		if err != nil {
			return eris.Wrap(err, "create")
		}
		return writeOutput(cmd.OutOrStdout(), createFlags.format, res)
	},
}

func addTenantFlags(cmd *cobra.Command, f *tenantFlags) {
	cmd.Flags().StringVar(&f.apiKey, "api-key", "", "JobNimbus API key (default from config)")
	cmd.Flags().StringVar(&f.actorEmail, "actor-email", "", "email of the user records are attributed to")
	cmd.Flags().StringVar(&f.actorName, "actor-name", "", "name of the user records are attributed to")
	cmd.Flags().StringVar(&f.format, "format", "json", "output format: json or yaml")
}

func init() {
	createCmd.Flags().StringVarP(&createFile, "file", "f", "-", "input document path, - for stdin")
	addTenantFlags(createCmd, &createFlags)
	rootCmd.AddCommand(createCmd)
}
