package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authorize pocketctl with your account",
	Long: `Walk through the authorization handshake: obtain a request token,
open the authorization page in your browser, and exchange the approved
token for an access token to store in your config file.`,
	RunE: runAuth,
}

func runAuth(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	token, err := client.RequestCode(ctx, cfg.Pocket.RedirectURI)
	if err != nil {
		return fmt.Errorf("failed to obtain request token: %w", err)
	}

	authURL, err := client.AuthorizationURL(token)
	if err != nil {
		return err
	}

	fmt.Println("Open this URL in your browser and approve the application:")
	fmt.Println()
	fmt.Printf("  %s\n", authURL)
	fmt.Println()
	fmt.Print("Press Enter once you have approved access... ")
	bufio.NewReader(os.Stdin).ReadString('\n')

	auth, err := client.ExchangeForAccessToken(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to exchange request token: %w", err)
	}

	fmt.Println()
	fmt.Printf("Authorized as %s.\n", auth.Username)
	fmt.Println("Add the credentials to your config file:")
	fmt.Println()
	fmt.Println("  pocket:")
	fmt.Printf("    consumer_key: %s\n", cfg.Pocket.ConsumerKey)
	fmt.Printf("    access_token: %s\n", auth.AccessToken)
	fmt.Printf("    username: %s\n", auth.Username)

	return nil
}
