package imagegen

import (
	"strings"

	"visualizer/internal/domain"
)

const (
	drawersMissingText  = "Some drawers are missing. Draw new drawer fronts as flat rectangles that match the size, shape, and alignment of surrounding drawers."
	drawersPresentText  = "All drawers appear present; keep their size and outer boundaries unchanged."
	archedEraseText     = "Remove all arched or raised panel shapes. Flatten them completely before drawing the new style."
	genericEraseText    = "Remove all existing panel lines, bevels, grooves, and decorative shapes to prepare for the new style."
	angledPhotoText     = "Match the angle and perspective of the original photo when drawing all new rectangles and hardware. Maintain consistent vanishing points."
	straightOnPhotoText = "Keep all geometry perfectly parallel since the photo is taken straight-on."
	straightenWarpText  = "Straighten any warped or distorted cabinet faces before applying the new geometry. Correct vertical and horizontal alignment."
	cleanupText         = "Remove noise, smudges, debris, and painter's tape before generating final output."
	keepClarityText     = "Keep image clarity but do not over-smooth the rest of the kitchen."
	warmLightingText    = "Adjust reflections and highlights to match warm indoor lighting."
	coolLightingText    = "Use cooler, softer highlights consistent with cool lighting."
	neutralLightingText = "Use neutral white lighting reflections."
)

var lightingText = map[domain.Lighting]string{
	domain.LightingWarm:    warmLightingText,
	domain.LightingCool:    coolLightingText,
	domain.LightingNeutral: neutralLightingText,
}

// ComposePrompt builds the ten-section edit instruction sent to the image
// model. It is pure: the same inputs always produce the same text.
func ComposePrompt(description string, style domain.StyleSelection, features domain.PhotoFeatures) string {
	missingParts := drawersPresentText
	if features.DrawersMissing {
		missingParts = drawersMissingText
	}
	erase := genericEraseText
	if features.HasArchedDoors {
		erase = archedEraseText
	}
	angle := straightOnPhotoText
	if features.IsAngledPhoto {
		angle = angledPhotoText
	}
	warp := ""
	if features.WarpedPerspective {
		warp = straightenWarpText
	}
	cleanup := keepClarityText
	if features.NeedsCleanup {
		cleanup = cleanupText
	}

	var sb strings.Builder
	sb.WriteString("LOOK AT THE IMAGE AND FOLLOW THESE ACTIONS EXACTLY:\n\n")

	sb.WriteString("1. ANALYZE STRUCTURE\n")
	sb.WriteString("- Identify all cabinets, doors, drawers, openings, and hardware in the image.\n")
	sb.WriteString("- Preserve countertops, walls, appliances, windows, lighting, and flooring.\n")
	sb.WriteString("- Do NOT modify anything except cabinets, drawers, and hardware.\n\n")

	section(&sb, "2. RECONSTRUCT MISSING PARTS", missingParts)
	section(&sb, "3. ERASE OLD STYLES", erase)
	section(&sb, "4. DRAW NEW DOOR STYLE", DoorGeometry(style.DoorStyle))
	section(&sb, "5. APPLY NEW COLOR",
		"Recolor all cabinet surfaces to "+style.ColorName+" ("+style.ColorHex+") with a smooth satin finish.",
		"Do not change shadows or reflections on surrounding objects.")
	section(&sb, "6. REMOVE OLD HARDWARE AND ADD NEW",
		"Erase all existing handles and knobs completely.",
		HardwareGeometry(style.HardwareStyle),
		HardwareFinishText(style.HardwareFinish),
		"Place handles centered and aligned with standard orientation.")
	section(&sb, "7. ANGLE / PERSPECTIVE HANDLING", angle, warp)
	section(&sb, "8. LIGHTING CONDITIONS", lightingText[features.Lighting.Normalize()])
	section(&sb, "9. CLEANUP", cleanup)
	section(&sb, "10. FINAL DIRECTIVE",
		"Generate the updated kitchen with the new cabinet style, color, and hardware while keeping all other room elements unchanged.",
		"Maintain photorealism and match the original shadows, angle, and lighting.")

	sb.WriteString("IMAGE REFERENCE:\n")
	sb.WriteString(description)

	return strings.TrimSpace(sb.String())
}

// section writes a numbered header and its lines. Empty optional lines still
// occupy a line so the section layout stays fixed.
func section(sb *strings.Builder, header string, lines ...string) {
	sb.WriteString(header)
	sb.WriteByte('\n')
	for _, line := range lines {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	sb.WriteByte('\n')
}
