package commands

import (
	"github.com/fivetwenty-io/gapi-client/internal/logging"
	"github.com/fivetwenty-io/gapi-client/pkg/gapi"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// newLogger builds the CLI logger on stderr. --verbose forces debug level.
func newLogger(cmd *cobra.Command) (gapi.Logger, error) {
	level := viper.GetString("log-level")
	if level == "" {
		level = logrus.WarnLevel.String()
	}

	if viper.GetBool("verbose") {
		level = logrus.DebugLevel.String()
	}

	entry, err := logging.Setup(cmd.ErrOrStderr(), level, viper.GetString("log-format"), logrus.Fields{
		"command": cmd.Name(),
	})
	if err != nil {
		return nil, err
	}

	return logging.NewLogrusLogger(entry), nil
}
