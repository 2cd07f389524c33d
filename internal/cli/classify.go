package cli

import (
	"github.com/spf13/cobra"

	"github.com/YKarmar/JobTracker/internal/classify"
)

func (a *app) classifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <sender>...",
		Short: "Show the category for sender addresses",
		Example: `  jobtracker classify jobalerts-noreply@linkedin.com
  jobtracker classify "LinkedIn <messages-noreply@linkedin.com>" someone@example.com`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rc := a.remote()
			for _, sender := range args {
				c := classify.Classify(sender)
				if rc != nil {
					var err error
					if c, err = rc.Classify(cmd.Context(), sender); err != nil {
						return err
					}
				}
				printf(cmd, "%s\t%s\t%s\n", sender, c, c.EmailType())
			}
			return nil
		},
	}
}
