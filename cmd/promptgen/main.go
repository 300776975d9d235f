package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"visualizer/internal/domain"
	"visualizer/internal/imagegen"
)

type composeFlags struct {
	description  string
	doorStyle    string
	colorHex     string
	colorName    string
	hardware     string
	finish       string
	lighting     string
	drawers      bool
	angled       bool
	arched       bool
	cleanup      bool
	warped       bool
	fromKeywords bool
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "promptgen",
		Short: "Compose kitchen refacing prompts offline",
		Long: `promptgen builds the same edit instruction the API sends to the image model,
without calling any upstream service.

Examples:
  promptgen compose -d "L-shaped kitchen" --door shaker --hardware loft --finish satinnickel --angled
  promptgen compose -d "dim corner shot, tape on doors" --from-keywords
  promptgen extract "warm kitchen with arched doors"
  promptgen options`,
		SilenceUsage: true,
	}
	root.AddCommand(newComposeCmd(), newExtractCmd(), newOptionsCmd())
	return root
}

func newComposeCmd() *cobra.Command {
	var f composeFlags
	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Print the composed prompt",
		RunE: func(cmd *cobra.Command, args []string) error {
			features := domain.PhotoFeatures{
				Description:       f.description,
				DrawersMissing:    f.drawers,
				IsAngledPhoto:     f.angled,
				HasArchedDoors:    f.arched,
				Lighting:          domain.Lighting(f.lighting).Normalize(),
				NeedsCleanup:      f.cleanup,
				WarpedPerspective: f.warped,
			}
			if f.fromKeywords {
				features = imagegen.NewKeywordExtractor().Extract(f.description)
			}
			style := domain.StyleSelection{
				DoorStyle:      domain.DoorStyle(f.doorStyle),
				HardwareStyle:  domain.HardwareStyle(f.hardware),
				HardwareFinish: domain.HardwareFinish(f.finish),
				ColorHex:       f.colorHex,
				ColorName:      f.colorName,
			}
			_, err := cmd.OutOrStdout().Write([]byte(imagegen.ComposePrompt(features.Description, style, features) + "\n"))
			return err
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&f.description, "description", "d", domain.DefaultPhotoDescription, "Photo description placed under IMAGE REFERENCE")
	fl.StringVar(&f.doorStyle, "door", string(imagegen.DefaultDoorStyle), "Door style")
	fl.StringVar(&f.colorHex, "color-hex", "#FFFFFF", "Cabinet color hex")
	fl.StringVar(&f.colorName, "color-name", "Classic White", "Cabinet color name")
	fl.StringVar(&f.hardware, "hardware", string(imagegen.DefaultHardwareStyle), "Hardware style")
	fl.StringVar(&f.finish, "finish", string(imagegen.DefaultHardwareFinish), "Hardware finish")
	fl.StringVar(&f.lighting, "lighting", string(domain.LightingNeutral), "Lighting: warm, cool or neutral")
	fl.BoolVar(&f.drawers, "drawers-missing", false, "Photo has missing drawer fronts")
	fl.BoolVar(&f.angled, "angled", false, "Photo is taken at an angle")
	fl.BoolVar(&f.arched, "arched", false, "Existing doors are arched")
	fl.BoolVar(&f.cleanup, "cleanup", false, "Photo needs debris cleanup")
	fl.BoolVar(&f.warped, "warped", false, "Photo has lens distortion")
	fl.BoolVar(&f.fromKeywords, "from-keywords", false, "Derive features from the description instead of flags")
	return cmd
}

func newExtractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract <description>",
		Short: "Print the features the keyword extractor derives from a description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeJSON(cmd, imagegen.NewKeywordExtractor().Extract(args[0]))
		},
	}
}

func newOptionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "List door, hardware and finish options",
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeJSON(cmd, imagegen.CatalogOptions())
		},
	}
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
