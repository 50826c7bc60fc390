// Command goalcheck replays a recorded game against a goal script and
// reports the outcome of every goal.
package main

import "victorygoals/internal/platform/config"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		config.Exitf("goalcheck: %v", err)
	}
}
