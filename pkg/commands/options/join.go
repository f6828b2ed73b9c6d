package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/waitlist/pkg/record"
)

// JoinOptions carries the signup fields given on the command line.
type JoinOptions struct {
	FullName string
	Email    string
}

func AddJoinArgs(cmd *cobra.Command, o *JoinOptions) {
	cmd.Flags().StringVarP(&o.FullName, "full-name", "n", "",
		"Full name of the person joining.")
	cmd.Flags().StringVarP(&o.Email, "email", "e", "",
		"Email address of the person joining.")
}

// Fields maps the flags onto form field names.
func (o *JoinOptions) Fields() map[string]string {
	return map[string]string{
		record.FieldFullName: o.FullName,
		record.FieldEmail:    o.Email,
	}
}
