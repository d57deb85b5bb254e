// Package catalog holds the curated prompt suggestions shown in the
// generator UI.
package catalog

import "math/rand"

// ViralPrompts is the curated suggestion pool
var ViralPrompts = []string{
	// ASMR & relaxing
	"Raindrops sliding down a window with calm thunder",
	"Tea being poured slowly with gentle background hum",
	"Honey dripping over pancakes under warm golden light",
	"Steam rising from noodles in cinematic light",
	"Ink spreading on paper in slow motion",
	"Waves touching pebbles with soft wind sound",
	"Coffee swirl in transparent cup, aesthetic motion",
	"Milk pouring into coffee in slow motion",
	"Waterfall cascading over mossy rocks peacefully",
	"Crackling fireplace with warm orange glow",
	"Ice cubes dropping into glass with water splash",
	"Silk fabric flowing smoothly in air",
	"Flower petals falling in slow motion",
	"Morning dew drops on spider web",
	"Zen garden being raked in peaceful silence",

	// Nature & landscapes
	"Sunset over calm ocean with pastel sky",
	"Northern lights dancing across arctic sky",
	"Cherry blossoms falling in spring garden",
	"Mountain peak emerging from morning mist",
	"Desert dunes shifting under starry night",
	"Waterfall in tropical rainforest with rainbow",
	"Lightning storm over open sea at dusk",
	"Snow falling silently on a pine forest",
	"Golden wheat field swaying in summer wind",
	"Full moon rising behind city skyline",

	// Motion & abstract
	"Paint colors mixing underwater in slow motion",
	"Neon lights reflecting on wet city streets",
	"Soap bubble bursting in macro slow motion",
	"Smoke curling upward in a sunbeam",
	"Glass shattering frozen in time",
}

// Random returns n distinct prompts from the pool in random order. Asking
// for more than the pool holds returns the whole pool shuffled.
func Random(n int) []string {
	if n <= 0 {
		return nil
	}
	if n > len(ViralPrompts) {
		n = len(ViralPrompts)
	}
	idx := rand.Perm(len(ViralPrompts))
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = ViralPrompts[idx[i]]
	}
	return out
}
