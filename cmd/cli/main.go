package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
	token   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "bancore-cli",
		Short: "Bancore CLI tool",
		Long:  `A command line interface for interacting with the Bancore API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Bancore API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("BANCORE_TOKEN"), "Access token for authenticated commands")

	rootCmd.AddCommand(
		registerCmd(),
		loginCmd(),
		consignCmd(),
		withdrawCmd(),
		transferCmd(),
		profileCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func registerCmd() *cobra.Command {
	var ownerName, documentType, documentNumber, accountNumber, initialAmount string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Provision a new account",
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodPost, "/api/v1/auth/register", map[string]any{
				"owner_name":      ownerName,
				"document_type":   documentType,
				"document_number": documentNumber,
				"account_number":  accountNumber,
				"initial_amount":  json.Number(initialAmount),
			})
		},
	}

	cmd.Flags().StringVar(&ownerName, "owner", "", "Account holder's full name")
	cmd.Flags().StringVar(&documentType, "document-type", "CC", "Identity document type")
	cmd.Flags().StringVar(&documentNumber, "document", "", "Identity document number")
	cmd.Flags().StringVar(&accountNumber, "account", "", "Account number")
	cmd.Flags().StringVar(&initialAmount, "initial", "0", "Opening deposit amount")
	cmd.MarkFlagRequired("owner")
	cmd.MarkFlagRequired("document")
	cmd.MarkFlagRequired("account")

	return cmd
}

func loginCmd() *cobra.Command {
	var accountNumber, documentNumber string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and print an access token",
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodPost, "/api/v1/auth/login", map[string]any{
				"account_number":  accountNumber,
				"document_number": documentNumber,
			})
		},
	}

	cmd.Flags().StringVar(&accountNumber, "account", "", "Account number")
	cmd.Flags().StringVar(&documentNumber, "document", "", "Identity document number")
	cmd.MarkFlagRequired("account")
	cmd.MarkFlagRequired("document")

	return cmd
}

func consignCmd() *cobra.Command {
	var accountNumber, depositor, amount string

	cmd := &cobra.Command{
		Use:   "consign",
		Short: "Deposit into an account",
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodPost, "/api/v1/transactions/consignation", map[string]any{
				"account_number": accountNumber,
				"depositor":      depositor,
				"amount":         json.Number(amount),
			})
		},
	}

	cmd.Flags().StringVar(&accountNumber, "account", "", "Receiving account number")
	cmd.Flags().StringVar(&depositor, "depositor", "", "Depositor's document number")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount to deposit")
	cmd.MarkFlagRequired("account")
	cmd.MarkFlagRequired("depositor")
	cmd.MarkFlagRequired("amount")

	return cmd
}

func withdrawCmd() *cobra.Command {
	var amount string

	cmd := &cobra.Command{
		Use:   "withdraw",
		Short: "Withdraw from your account",
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodPost, "/api/v1/transactions/withdrawal", map[string]any{
				"amount": json.Number(amount),
			})
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "Amount to withdraw")
	cmd.MarkFlagRequired("amount")

	return cmd
}

func transferCmd() *cobra.Command {
	var accountNumber, amount string

	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Transfer to another account",
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodPost, "/api/v1/transactions/transfer", map[string]any{
				"account_number": accountNumber,
				"amount":         json.Number(amount),
			})
		},
	}

	cmd.Flags().StringVar(&accountNumber, "account", "", "Receiving account number")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount to transfer")
	cmd.MarkFlagRequired("account")
	cmd.MarkFlagRequired("amount")

	return cmd
}

func profileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show your account profile and movements",
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodGet, "/api/v1/profile", nil)
		},
	}
}

func doRequest(method, path string, body map[string]any) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			fmt.Printf("Failed to encode request: %v\n", err)
			os.Exit(1)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, baseURL+path, reader)
	if err != nil {
		fmt.Printf("Failed to build request: %v\n", err)
		os.Exit(1)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		fmt.Println(string(raw))
	} else {
		fmt.Println(pretty.String())
	}

	if resp.StatusCode >= 400 {
		os.Exit(1)
	}
}
