package client

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// Blueprint represents a merged profile from the API.
type Blueprint struct {
	ID               string  `json:"id"`
	SubjectID        string  `json:"subject_id"`
	Profile          Profile `json:"profile"`
	TotalExtractions int64   `json:"total_extractions"`
	ConfidenceScore  float64 `json:"confidence_score"`
	DataCompleteness float64 `json:"data_completeness"`
	Version          int64   `json:"version"`
	CreatedAt        string  `json:"created_at"`
	UpdatedAt        string  `json:"updated_at"`
}

type Profile struct {
	Personal struct {
		Name    string `json:"name,omitempty"`
		Summary string `json:"summary,omitempty"`
	} `json:"personal"`
	Contact struct {
		Email    string `json:"email,omitempty"`
		Phone    string `json:"phone,omitempty"`
		Location string `json:"location,omitempty"`
	} `json:"contact"`
	Skills []struct {
		Name       string  `json:"name"`
		Confidence float64 `json:"confidence"`
	} `json:"skills"`
	Experience []struct {
		Role       string  `json:"role"`
		Company    string  `json:"company"`
		Duration   string  `json:"duration,omitempty"`
		Confidence float64 `json:"confidence"`
	} `json:"experience"`
	Education []struct {
		Degree      string  `json:"degree"`
		Institution string  `json:"institution"`
		Year        string  `json:"year,omitempty"`
		Confidence  float64 `json:"confidence"`
	} `json:"education"`
}

// GetCmd creates the get command.
func GetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "get <subject_id>",
		Short:   "Get a subject's blueprint",
		Long:    "Retrieves the merged profile blueprint for a subject and displays it.",
		Aliases: []string{"view"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runGet(args[0], outputJSON)
		},
	}

	return cmd
}

func runGet(subjectID string, outputJSON bool) error {
	api, err := NewAPIClient()
	if err != nil {
		return err
	}

	resp, err := api.Get(fmt.Sprintf("/blueprints/%s", subjectID))
	if err != nil {
		return fmt.Errorf("failed to get blueprint: %w", err)
	}

	var b Blueprint
	if err := json.Unmarshal(resp.Data, &b); err != nil {
		return fmt.Errorf("failed to parse blueprint: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(b, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("Subject: %s\n", b.SubjectID)
	if b.Profile.Personal.Name != "" {
		fmt.Printf("Name: %s\n", b.Profile.Personal.Name)
	}
	if b.Profile.Contact.Email != "" {
		fmt.Printf("Email: %s\n", b.Profile.Contact.Email)
	}
	fmt.Printf("Version: %d (from %d extractions)\n", b.Version, b.TotalExtractions)
	fmt.Printf("Confidence: %.2f  Completeness: %.2f\n", b.ConfidenceScore, b.DataCompleteness)

	if len(b.Profile.Skills) > 0 {
		fmt.Println("\nSkills:")
		for _, s := range b.Profile.Skills {
			fmt.Printf("  %s (%.2f)\n", s.Name, s.Confidence)
		}
	}

	if len(b.Profile.Experience) > 0 {
		fmt.Println("\nExperience:")
		for _, e := range b.Profile.Experience {
			line := fmt.Sprintf("  %s at %s", e.Role, e.Company)
			if e.Duration != "" {
				line += fmt.Sprintf(" (%s)", e.Duration)
			}
			fmt.Printf("%s (%.2f)\n", line, e.Confidence)
		}
	}

	if len(b.Profile.Education) > 0 {
		fmt.Println("\nEducation:")
		for _, e := range b.Profile.Education {
			line := fmt.Sprintf("  %s at %s", e.Degree, e.Institution)
			if e.Year != "" {
				line += fmt.Sprintf(" (%s)", e.Year)
			}
			fmt.Printf("%s (%.2f)\n", line, e.Confidence)
		}
	}

	return nil
}
