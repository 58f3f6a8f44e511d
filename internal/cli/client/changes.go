package client

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

// Change represents one change log entry from the API.
type Change struct {
	ID          string  `json:"id"`
	Version     int64   `json:"version"`
	Type        string  `json:"type"`
	Description string  `json:"description"`
	Impact      float64 `json:"impact"`
	CreatedAt   string  `json:"created_at"`
}

// ChangePage is one page of the change log.
type ChangePage struct {
	Items   []Change `json:"items"`
	Cursor  string   `json:"cursor,omitempty"`
	HasMore bool     `json:"has_more"`
}

// ChangesCmd creates the changes command.
func ChangesCmd() *cobra.Command {
	var limit int
	var cursor string

	cmd := &cobra.Command{
		Use:   "changes <subject_id>",
		Short: "List a subject's change log",
		Long:  "Lists the change log for a subject's blueprint, newest first.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runChanges(args[0], limit, cursor, outputJSON)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of results")
	cmd.Flags().StringVar(&cursor, "cursor", "", "Pagination cursor from previous response")

	return cmd
}

func runChanges(subjectID string, limit int, cursor string, outputJSON bool) error {
	api, err := NewAPIClient()
	if err != nil {
		return err
	}

	path := fmt.Sprintf("/blueprints/%s/changes?limit=%d", subjectID, limit)
	if cursor != "" {
		path += "&cursor=" + url.QueryEscape(cursor)
	}

	resp, err := api.Get(path)
	if err != nil {
		return fmt.Errorf("failed to list changes: %w", err)
	}

	var page ChangePage
	if err := json.Unmarshal(resp.Data, &page); err != nil {
		return fmt.Errorf("failed to parse changes: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(page, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(page.Items) == 0 {
		fmt.Printf("No changes recorded for %s\n", subjectID)
		return nil
	}

	fmt.Printf("Changes for %s:\n", subjectID)
	for _, c := range page.Items {
		fmt.Printf("  v%d [%s] %s (%s)\n", c.Version, c.Type, c.Description, c.CreatedAt)
	}

	if page.HasMore && page.Cursor != "" {
		fmt.Printf("\nMore results available. Use --cursor %s\n", page.Cursor)
	}

	return nil
}
