package client

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// MergeResult mirrors the merge endpoint's response payload.
type MergeResult struct {
	Blueprint Blueprint `json:"blueprint"`
	Summary   struct {
		NewSkills     int     `json:"new_skills"`
		NewExperience int     `json:"new_experience"`
		NewEducation  int     `json:"new_education"`
		UpdatedFields int     `json:"updated_fields"`
		Confidence    float64 `json:"confidence"`
	} `json:"summary"`
	Changes []Change `json:"changes"`
}

// MergeCmd creates the merge command.
func MergeCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "merge <subject_id>",
		Short: "Merge an extraction into a subject's blueprint",
		Long:  "Reads a structured extraction (JSON) from a file or stdin and merges it into the subject's blueprint.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runMerge(args[0], file, outputJSON)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Path to extraction JSON (defaults to stdin)")

	return cmd
}

func runMerge(subjectID, file string, outputJSON bool) error {
	var data []byte
	var err error
	if file != "" {
		data, err = os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read extraction file: %w", err)
		}
	} else {
		data, err = io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read extraction from stdin: %w", err)
		}
	}

	var extraction map[string]interface{}
	if err := json.Unmarshal(data, &extraction); err != nil {
		return fmt.Errorf("extraction is not valid JSON: %w", err)
	}

	api, err := NewAPIClient()
	if err != nil {
		return err
	}

	resp, err := api.Post(fmt.Sprintf("/blueprints/%s/extractions", subjectID), extraction)
	if err != nil {
		return fmt.Errorf("failed to merge extraction: %w", err)
	}

	var result MergeResult
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return fmt.Errorf("failed to parse merge result: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("Merged extraction into blueprint for %s (version %d)\n", result.Blueprint.SubjectID, result.Blueprint.Version)
	fmt.Printf("New: %d skills, %d experience, %d education; %d fields updated\n",
		result.Summary.NewSkills, result.Summary.NewExperience, result.Summary.NewEducation, result.Summary.UpdatedFields)
	fmt.Printf("Confidence: %.2f\n", result.Summary.Confidence)

	if len(result.Changes) > 0 {
		fmt.Println("\nChanges:")
		for _, c := range result.Changes {
			fmt.Printf("  [%s] %s\n", c.Type, c.Description)
		}
	} else {
		fmt.Println("\nNo changes (extraction already reflected in blueprint)")
	}

	return nil
}
