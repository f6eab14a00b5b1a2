package main

import "github.com/tapedeck/engine/internal/dsp"

// presets are built-in Attributes literals covering the signal chain's
// characteristic behaviors, named for the exercise they're meant to
// demonstrate rather than any specific hardware preset bank.
var presets = map[string]dsp.Attributes{
	"clean": {
		PreAmp: 1, Drive: 0.1, Saturation: 0.1, Width: 0.5, DryWet: 0.2, Tone: 0.5,
		Speed: 0.3,
		Heads: [4]dsp.HeadAttributes{
			{Position: 0.5, Feedback: 0, Volume: 1, Pan: 0.5},
		},
	},
	"saturate": {
		PreAmp: 2.5, Drive: 0.85, Saturation: 0.8, Width: 0.7, Bias: 0.1, DryWet: 1, Tone: 0.6,
		Speed: 0.3,
		Heads: [4]dsp.HeadAttributes{
			{Position: 0.5, Feedback: 0, Volume: 1, Pan: 0.5},
		},
	},
	"echo": {
		PreAmp: 1.2, Drive: 0.3, Saturation: 0.3, Width: 0.5, DryWet: 0.5, Tone: 0.45,
		Speed:           0.45,
		FilterPlacement: dsp.FilterPlacementFeedback,
		Heads: [4]dsp.HeadAttributes{
			{Position: 1.0, Feedback: 0.35, Volume: 1, Pan: 0.5},
		},
	},
	"feedback-decay": {
		PreAmp: 1.3, Drive: 0.4, Saturation: 0.4, Width: 0.5, DryWet: 0.6, Tone: 0.4,
		Speed:           0.6,
		FilterPlacement: dsp.FilterPlacementFeedback,
		Heads: [4]dsp.HeadAttributes{
			{Position: 1.0, Feedback: 0.8, Volume: 1, Pan: 0.5},
			{Position: 0.5, Feedback: 0.8, Volume: 0.6, Pan: 0.5},
		},
	},
	"rewind": func() dsp.Attributes {
		forward := float32(3.0)
		return dsp.Attributes{
			PreAmp: 1, Drive: 0.2, Saturation: 0.2, Width: 0.5, DryWet: 0.7, Tone: 0.5,
			Speed: 0.5,
			Heads: [4]dsp.HeadAttributes{
				{Position: 0.1, Feedback: 0.1, Volume: 1, Pan: 0.5, RewindForward: &forward},
			},
		}
	}(),
	"blend": {
		PreAmp: 1, Drive: 0.2, Saturation: 0.2, Width: 0.5, DryWet: 0.7, Tone: 0.5,
		Speed: 0.5,
		Heads: [4]dsp.HeadAttributes{
			{Position: 0.8, Feedback: 0.2, Volume: 1, Pan: 0.5},
		},
	},
	"compressor-clamp": {
		PreAmp: 4, Drive: 0.9, Saturation: 0.7, Width: 0.6, DryWet: 1, Tone: 0.5,
		Speed: 0.3,
		Heads: [4]dsp.HeadAttributes{
			{Position: 0.5, Feedback: 0.1, Volume: 1, Pan: 0.5},
		},
	},
}
