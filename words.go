/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"crypto/rand"
)

// WordPair is one round's secret: the majority receives the shared word,
// the impostor receives the decoy from the same category.
type WordPair struct {
	Category string `json:"category"`
	Shared   string `json:"shared"`
	Impostor string `json:"impostor"`
}

// WordBank is an immutable list of word pairs. Draws are uniform.
type WordBank struct {
	pairs []WordPair
}

func newWordBank(pairs []WordPair) *WordBank {
	copied := make([]WordPair, len(pairs))
	copy(copied, pairs)
	return &WordBank{pairs: copied}
}

func defaultWordBank() *WordBank {
	return newWordBank([]WordPair{
		{Category: "Basketball", Shared: "Kobe Bryant", Impostor: "Michael Jordan"},
		{Category: "Desserts", Shared: "Chocolate Cake", Impostor: "Brownie"},
		{Category: "Cities", Shared: "Paris", Impostor: "Rome"},
		{Category: "Fantasy Creatures", Shared: "Dragon", Impostor: "Phoenix"},
		{Category: "Video Games", Shared: "Minecraft", Impostor: "Roblox"},
		{Category: "Space", Shared: "Milky Way", Impostor: "Andromeda"},
		{Category: "Animals", Shared: "Elephant", Impostor: "Hippopotamus"},
		{Category: "Snacks", Shared: "Potato Chips", Impostor: "Popcorn"},
		{Category: "Streaming", Shared: "Netflix", Impostor: "Hulu"},
		{Category: "Music", Shared: "Taylor Swift", Impostor: "Olivia Rodrigo"},
		{Category: "Technology", Shared: "iPhone", Impostor: "Samsung Galaxy"},
		{Category: "Cars", Shared: "Tesla", Impostor: "BMW"},
		{Category: "Movies", Shared: "Star Wars", Impostor: "Star Trek"},
		{Category: "Social Media", Shared: "Instagram", Impostor: "TikTok"},
		{Category: "Food", Shared: "Pizza", Impostor: "Burger"},
	})
}

func (wb *WordBank) len() int {
	return len(wb.pairs)
}

func (wb *WordBank) draw() (WordPair, error) {
	if len(wb.pairs) == 0 {
		return WordPair{}, errNoWordPairs
	}

	return wb.pairs[randIndex(len(wb.pairs))], nil
}

// randIndex returns a uniform index in [0, n) using crypto/rand with
// rejection sampling to avoid modulo bias.
func randIndex(n int) int {
	if n <= 1 {
		return 0
	}

	max := byte(255 - (256 % n))

	buf := make([]byte, 8)
	for {
		if _, err := rand.Read(buf); err != nil {
			panic("crypto/rand failure: " + err.Error())
		}
		for _, b := range buf {
			if b <= max {
				return int(b) % n
			}
		}
	}
}
