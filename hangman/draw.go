package hangman

import "fmt"

const gallowsBase = `
       ______|________
     /             |              /|
   /______________ /  |
   |%d INCORRECT   |   /
   |______________|/`

// stages holds the figure above the base for 2 to 9 failures.
var stages = []string{
	`
                   |
                   |
                   |
                   |
                   |`,
	`
                   _______
                   |/         \|
                   |
                   |
                   |
                   |`,
	`
                   _______
                   |/         \|
                   |          @
                   |
                   |
                   |`,
	`
                   _______
                   |/         \|
                   |          @
                   |           |
                   |           |
                   |`,
	`
                   _______
                   |/         \|
                   |          @
                   |          /|
                   |           |
                   |`,
	`
                   _______
                   |/         \|
                   |          @
                   |          /|\
                   |           |
                   |`,
	`
                   _______
                   |/         \|
                   |          @
                   |          /|\
                   |           |
                   |          /`,
	`
                   _______
                   |/         \|
                   |          @
                   |          /|\
                   |           |
                   |          / \`,
}

const firstStage = `
       ______________
     /                            /|
   /______________ /  |
   |1 INCORRECT   |   /
   |______________|/`

// Draw renders the gallows for a failure count. Counts above 9 draw the
// full figure.
func Draw(failures int) string {
	switch {
	case failures <= 0:
		return ""
	case failures == 1:
		return firstStage
	case failures > MaxFailures:
		failures = MaxFailures
	}
	return stages[failures-2] + fmt.Sprintf(gallowsBase, failures)
}
