// Operator CLI for the root panel: offline throughput calculations and
// rate-profile management over the REST API
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/aman-churiwal/root-panel/internal/client"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	// Load env if it exists
	godotenv.Load()

	if err := rootCmd().Execute(); err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			_, _ = fmt.Fprintln(os.Stderr, color.YellowString("session rejected, run `rootctl login` again"))
		}
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("ROOTPANEL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:          "rootctl",
		Short:        "Root panel operator tool",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("url", "http://localhost:8080", "root panel base URL (ROOTPANEL_URL)")
	root.PersistentFlags().String("token", "", "root token (ROOTPANEL_TOKEN)")
	_ = v.BindPFlag("url", root.PersistentFlags().Lookup("url"))
	_ = v.BindPFlag("token", root.PersistentFlags().Lookup("token"))

	root.AddCommand(calcCmd())
	root.AddCommand(loginCmd(v))
	root.AddCommand(speedsCmd(v))

	return root
}

func newClient(v *viper.Viper) *client.Client {
	return client.New(v.GetString("url"), client.WithToken(v.GetString("token")))
}
