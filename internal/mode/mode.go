// Package mode holds the persona catalog: per-mode system prompts, quick
// actions, and routing/formatting policy. The catalog is configuration
// data; an optional TOML file overrides the built-in profiles.
package mode

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// Profile describes one mode.
type Profile struct {
	Name         string
	Label        string
	SystemPrompt string
	QuickActions []string

	// StepEligible enables numbered-step segmentation of replies.
	StepEligible bool
	// StudyContext prepends recent question/summary memory to prompts.
	StudyContext bool
	// FunDedup checks replies against recent fingerprints and regenerates
	// near-duplicates.
	FunDedup bool
	// GeminiFirst routes this mode to the Gemini-led responder list.
	GeminiFirst bool
}

// profileOverride mirrors Profile for TOML decoding with optional booleans,
// so a file can switch a built-in flag off as well as on.
type profileOverride struct {
	Label        string   `toml:"label"`
	SystemPrompt string   `toml:"system_prompt"`
	QuickActions []string `toml:"quick_actions"`
	StepEligible *bool    `toml:"step_eligible"`
	StudyContext *bool    `toml:"study_context"`
	FunDedup     *bool    `toml:"fun_dedup"`
	GeminiFirst  *bool    `toml:"gemini_first"`
}

// Catalog maps mode names to profiles.
type Catalog struct {
	profiles map[string]Profile
}

// Default returns the built-in catalog with the five shipped modes.
func Default() Catalog {
	profiles := map[string]Profile{
		"study": {
			Label:        "Study Mode",
			SystemPrompt: "You are a highly knowledgeable tutor who explains step by step, in one complete response (not broken across multiple turns). Always explain concepts clearly with examples. Focus on accuracy and depth, avoiding unnecessary fluff.",
			QuickActions: []string{
				"Explain this step by step",
				"Give me a worked example",
				"Quiz me on this topic",
			},
			StepEligible: true,
			StudyContext: true,
		},
		"research": {
			Label:        "Research Mode",
			SystemPrompt: "You are a world-class researcher with access to the latest web data. Provide factual, well-structured answers with references when possible. Avoid hallucinations, always prioritize reliability.",
			QuickActions: []string{
				"Summarize the current state of this topic",
				"List the key sources on this",
			},
			StepEligible: true,
			StudyContext: true,
		},
		"creative": {
			Label:        "Creative Mode",
			SystemPrompt: "You are an imaginative creator who can brainstorm, generate ideas, and write with creativity. Be expressive, vivid, and flexible. Provide multiple ideas when possible.",
			QuickActions: []string{
				"Brainstorm ten ideas for this",
				"Write a short story about this",
			},
			GeminiFirst: true,
		},
		"fun": {
			Label:        "Fun Mode",
			SystemPrompt: "You are a chill friend. Keep answers generally short (2-4 sentences), but make them a little longer if needed. Always respond in the same language as the user input. Keep the tone casual, fun, and natural like a real buddy, not like a teacher. Make sure responses feel lightweight, not too long.",
			QuickActions: []string{
				"Tell me a joke",
				"Give me a riddle",
				"Share a fun fact",
			},
			FunDedup:    true,
			GeminiFirst: true,
		},
		"debate": {
			Label:        "Debate Mode",
			SystemPrompt: "You are a sharp debater. When given a topic, analyze both sides with strong reasoning, evidence, and logical clarity. Stay objective but structured. End with a balanced conclusion or your strongest recommendation.",
			QuickActions: []string{
				"Argue both sides of this",
				"What is the strongest counterargument?",
			},
		},
	}
	for name, p := range profiles {
		p.Name = name
		profiles[name] = p
	}
	return Catalog{profiles: profiles}
}

// Load reads a TOML catalog file and merges it over the defaults. Each
// [modes.<name>] table either overrides a built-in profile or adds a new
// one.
func Load(path string) (Catalog, error) {
	var file struct {
		Modes map[string]profileOverride `toml:"modes"`
	}
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return Catalog{}, fmt.Errorf("load mode catalog: %w", err)
	}

	c := Default()
	for name, p := range file.Modes {
		name = strings.ToLower(name)
		base, ok := c.profiles[name]
		if !ok {
			base = Profile{Name: name}
		}
		if p.Label != "" {
			base.Label = p.Label
		}
		if p.SystemPrompt != "" {
			base.SystemPrompt = p.SystemPrompt
		}
		if len(p.QuickActions) > 0 {
			base.QuickActions = p.QuickActions
		}
		if p.StepEligible != nil {
			base.StepEligible = *p.StepEligible
		}
		if p.StudyContext != nil {
			base.StudyContext = *p.StudyContext
		}
		if p.FunDedup != nil {
			base.FunDedup = *p.FunDedup
		}
		if p.GeminiFirst != nil {
			base.GeminiFirst = *p.GeminiFirst
		}
		c.profiles[name] = base
	}
	return c, nil
}

// Get looks up a profile by name, case-insensitive.
func (c Catalog) Get(name string) (Profile, bool) {
	p, ok := c.profiles[strings.ToLower(strings.TrimSpace(name))]
	return p, ok
}

// Names returns the sorted mode names.
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c.profiles))
	for name := range c.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
