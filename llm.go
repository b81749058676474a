package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultAnthropicModel = "claude-sonnet-4-5-20250929"

// llmSegment is the strict JSON shape the model must return: a flat list of
// segments matching the trainer step kinds.
type llmSegment struct {
	Type    string          `json:"type"` // "warmup", "steady", "repeat", "cooldown"
	Seconds int             `json:"seconds"`
	FromPct float64         `json:"from_pct"` // warmup/cooldown ramp endpoints
	ToPct   float64         `json:"to_pct"`
	Pct     float64         `json:"pct"` // steady target
	Repeat  int             `json:"repeat"`
	Work    *llmSegmentPart `json:"work"`
	Rest    *llmSegmentPart `json:"rest"`
}

type llmSegmentPart struct {
	Seconds int     `json:"seconds"`
	Pct     float64 `json:"pct"`
}

type llmWorkoutSpec struct {
	Name     string       `json:"name"`
	Segments []llmSegment `json:"segments"`
}

const workoutSystemPrompt = "You generate structured cycling trainer workouts as JSON only. " +
	"Return STRICT JSON: {\"name\": string, \"segments\": [...]}. Segment shapes: " +
	"{\"type\":\"warmup\",\"seconds\":int,\"from_pct\":float,\"to_pct\":float}, " +
	"{\"type\":\"steady\",\"seconds\":int,\"pct\":float}, " +
	"{\"type\":\"repeat\",\"repeat\":int,\"work\":{\"seconds\":int,\"pct\":float},\"rest\":{\"seconds\":int,\"pct\":float}}, " +
	"{\"type\":\"cooldown\",\"seconds\":int,\"from_pct\":float,\"to_pct\":float}. " +
	"Power values are fractions of FTP. No XML, no prose, no markdown fences."

// DesignWorkoutSteps returns trainer steps for a planned workout. When the
// LLM designer is enabled it asks the model for a structured session and
// falls back to the deterministic synthesizer on any failure; otherwise the
// synthesizer output is used directly. Either way the result is fully
// usable: a non-positive duration yields an empty list.
func DesignWorkoutSteps(cfg Config, name string, load float64, durationSec int) []Step {
	if durationSec <= 0 {
		return nil
	}
	if !cfg.LLMWorkouts || cfg.AnthropicAPIKey == "" {
		return SynthesizeSteadySteps(load, durationSec)
	}
	steps, err := designWithAnthropic(cfg, name, load, durationSec)
	if err != nil {
		log.Printf("llm workout design failed name=%q: %v (using synthesizer)", name, err)
		return SynthesizeSteadySteps(load, durationSec)
	}
	return steps
}

func designWithAnthropic(cfg Config, name string, load float64, durationSec int) ([]Step, error) {
	userPrompt := fmt.Sprintf(
		"Design a trainer workout named %q. Total duration %d seconds, target training load (TSS) %.0f. "+
			"Include a ramp warmup 50%%->75%% and cooldown 75%%->50%%. Use steady ERG steps for work and rest.",
		name, durationSec, load)

	text, err := callAnthropic(cfg.AnthropicAPIKey, cfg.LLMModel, workoutSystemPrompt, userPrompt)
	if err != nil {
		return nil, err
	}

	var spec llmWorkoutSpec
	if err := json.Unmarshal([]byte(stripJSONFences(text)), &spec); err != nil {
		return nil, fmt.Errorf("parsing workout spec: %w", err)
	}
	steps, err := segmentsToSteps(spec.Segments)
	if err != nil {
		return nil, err
	}
	return steps, nil
}

// segmentsToSteps validates and clamps the model's segments into trainer
// steps. Out-of-range values are clamped, structurally broken segments fail
// the whole design so the caller falls back.
func segmentsToSteps(segments []llmSegment) ([]Step, error) {
	if len(segments) == 0 {
		return nil, fmt.Errorf("no segments in workout spec")
	}
	var steps []Step
	for i, seg := range segments {
		switch seg.Type {
		case "warmup", "cooldown":
			if seg.Seconds <= 0 {
				return nil, fmt.Errorf("segment %d: missing seconds", i)
			}
			kind := "Warmup"
			if seg.Type == "cooldown" {
				kind = "Cooldown"
			}
			steps = append(steps, Step{
				Kind:      kind,
				Seconds:   clampInt(seg.Seconds, 60, 3600),
				PowerLow:  clampPower(seg.FromPct),
				PowerHigh: clampPower(seg.ToPct),
			})
		case "steady":
			if seg.Seconds <= 0 {
				return nil, fmt.Errorf("segment %d: missing seconds", i)
			}
			steps = append(steps, Step{
				Kind:    "SteadyState",
				Seconds: clampInt(seg.Seconds, 30, 7200),
				Power:   clampPower(seg.Pct),
			})
		case "repeat":
			if seg.Work == nil || seg.Rest == nil || seg.Repeat < 1 {
				return nil, fmt.Errorf("segment %d: malformed repeat", i)
			}
			steps = append(steps, Step{
				Kind:     "IntervalsT",
				Repeat:   clampInt(seg.Repeat, 1, 20),
				OnSec:    clampInt(seg.Work.Seconds, 15, 3600),
				OnPower:  clampPower(seg.Work.Pct),
				OffSec:   clampInt(seg.Rest.Seconds, 15, 3600),
				OffPower: clampPower(seg.Rest.Pct),
			})
		default:
			return nil, fmt.Errorf("segment %d: unknown type %q", i, seg.Type)
		}
	}
	return steps, nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampPower(v float64) float64 {
	if v < 0.3 {
		return 0.3
	}
	if v > 1.8 {
		return 1.8
	}
	return v
}

// stripJSONFences tolerates models wrapping the JSON in a markdown fence
// despite the prompt.
func stripJSONFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

func callAnthropic(apiKey, model, systemPrompt, userPrompt string) (string, error) {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	message, err := client.Messages.New(context.Background(), anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: 2048,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("Anthropic API error: %w", err)
	}
	for _, block := range message.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("no text content in Anthropic response")
}
