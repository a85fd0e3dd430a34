package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "evenly-cli",
		Short: "Evenly CLI tool",
		Long:  `A command line interface for interacting with the Evenly API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Evenly API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	balancesCmd := &cobra.Command{
		Use:   "balances <group-id>",
		Short: "Show who owes and who is owed in a group",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			showBalances(args[0])
		},
	}

	summaryCmd := &cobra.Command{
		Use:   "summary <group-id>",
		Short: "Show a group's expense summary by month and member",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			showSummary(args[0])
		},
	}

	owedCmd := &cobra.Command{
		Use:   "owed <user>",
		Short: "Show what a user still owes across all groups",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			showOwed(args[0])
		},
	}

	conservationCmd := &cobra.Command{
		Use:   "conservation",
		Short: "Verify that every group's ledger conserves money",
		Run: func(cmd *cobra.Command, args []string) {
			checkConservation()
		},
	}

	rootCmd.AddCommand(balancesCmd, summaryCmd, owedCmd, conservationCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func get(path string) map[string]any {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	return result
}

func showBalances(groupID string) {
	result := get("/api/v1/groups/" + url.PathEscape(groupID) + "/balances")

	balances, _ := result["balances"].([]any)
	if len(balances) == 0 {
		fmt.Println("No members found")
		return
	}

	for _, b := range balances {
		entry, ok := b.(map[string]any)
		if !ok {
			continue
		}
		fmt.Printf("%-40s owed: %-12v owes: %v\n",
			entry["member"], entry["owed_amount"], entry["owes_amount"])
	}
}

func showSummary(groupID string) {
	result := get("/api/v1/groups/" + url.PathEscape(groupID) + "/summary")

	fmt.Printf("Total expenses: %v\n", result["total_expenses"])

	if monthly, ok := result["monthly_expenses"].(map[string]any); ok && len(monthly) > 0 {
		fmt.Println("By month:")
		for month, amount := range monthly {
			fmt.Printf("  %s  %v\n", month, amount)
		}
	}

	if byMember, ok := result["expenses_by_member"].([]any); ok && len(byMember) > 0 {
		fmt.Println("By member:")
		for _, m := range byMember {
			entry, ok := m.(map[string]any)
			if !ok {
				continue
			}
			fmt.Printf("  %-40s paid: %-12v share: %v\n",
				entry["member"], entry["total_paid"], entry["total_share"])
		}
	}
}

func showOwed(user string) {
	result := get("/api/v1/balances/owed?user=" + url.QueryEscape(user))

	fmt.Printf("Total owed: %v\n", result["total_amount"])

	details, _ := result["owe_details"].([]any)
	for _, d := range details {
		entry, ok := d.(map[string]any)
		if !ok {
			continue
		}
		fmt.Printf("  group %-30s to %-40s %v\n",
			entry["group_id"], entry["owed_to"], entry["amount"])
	}
}

func checkConservation() {
	result := get("/api/v1/reconciliation")

	consistent, _ := result["consistent"].(bool)
	if consistent {
		fmt.Printf("Conservation check PASSED\n")
		fmt.Printf("Groups checked: %v\n", result["total_groups"])
		return
	}

	fmt.Printf("Conservation check FAILED\n")
	if violations, ok := result["violations"].([]any); ok {
		for _, v := range violations {
			entry, ok := v.(map[string]any)
			if !ok {
				continue
			}
			fmt.Printf("  group %v (%v) off by %v\n",
				entry["group_id"], entry["group_name"], entry["difference"])
		}
	}
	os.Exit(1)
}
