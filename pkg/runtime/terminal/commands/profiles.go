package commands

import (
	"github.com/spf13/cobra"
)

func NewProfilesCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List configured source profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if env.Explorer == nil {
				return errNoProfiles
			}

			profiles, err := env.Explorer.ListProfiles(cmd.Context())
			if err != nil {
				return err
			}
			if len(profiles) == 0 {
				cmd.Println("No source profiles found")
				return nil
			}

			cmd.Println("Source profiles:")
			for _, p := range profiles {
				cmd.Printf("  %s (%s)\n", p.Name, p.Type)
			}
			return nil
		},
	}
}
