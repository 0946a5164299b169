package content

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Am0lShah/Display-Output/api/types/v1alpha1"
)

// DefaultPlaylist returns the built-in content shown whenever the device is
// unpaired or no remote content exists. It has no network dependency.
func DefaultPlaylist() []v1alpha1.ContentItem {
	return []v1alpha1.ContentItem{
		{
			ID:              "default-welcome",
			Title:           "Welcome",
			Type:            v1alpha1.ContentTypeText,
			Text:            "Welcome to PiBoard",
			DurationSeconds: 12,
			Active:          true,
		},
		{
			ID:              "default-pairing",
			Title:           "Getting Started",
			Type:            v1alpha1.ContentTypeText,
			Text:            "Scan the pairing code with the PiBoard app to link this display to your account.",
			DurationSeconds: 10,
			Active:          true,
		},
		{
			ID:              "default-waiting",
			Title:           "Waiting for Content",
			Type:            v1alpha1.ContentTypeText,
			Text:            "Content assigned to this display will appear here automatically.",
			DurationSeconds: 15,
			Active:          true,
		},
	}
}

// fallbackFile is the YAML shape of an operator-provided default set
type fallbackFile struct {
	Items []struct {
		Title           string `yaml:"title"`
		Text            string `yaml:"text"`
		DurationSeconds int    `yaml:"durationSeconds"`
	} `yaml:"items"`
}

// LoadFallbackPlaylist reads an operator-provided replacement for the
// built-in default set. Any problem with the file falls back to the
// built-ins; a missing path is not an error.
func LoadFallbackPlaylist(path string, logger *slog.Logger) []v1alpha1.ContentItem {
	if path == "" {
		return DefaultPlaylist()
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("fallback content file unreadable, using built-ins",
			"path", path,
			"error", err,
		)
		return DefaultPlaylist()
	}

	var file fallbackFile
	if err := yaml.Unmarshal(raw, &file); err != nil || len(file.Items) == 0 {
		logger.Warn("fallback content file invalid, using built-ins", "path", path)
		return DefaultPlaylist()
	}

	items := make([]v1alpha1.ContentItem, 0, len(file.Items))
	for i, entry := range file.Items {
		duration := entry.DurationSeconds
		if duration <= 0 {
			duration = 10
		}
		items = append(items, v1alpha1.ContentItem{
			ID:              fmt.Sprintf("fallback-%d", i),
			Title:           entry.Title,
			Type:            v1alpha1.ContentTypeText,
			Text:            entry.Text,
			DurationSeconds: duration,
			Active:          true,
		})
	}
	return items
}
