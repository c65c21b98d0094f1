// Command example demonstrates the game state engine: it installs one
// of the bundled sample games and plays a random playout, printing the
// position and the randomly chosen joint move at each ply, and the
// final goal values.
package main

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gitrdm/gdlstate/internal/games"
	"github.com/gitrdm/gdlstate/pkg/gdl"
)

var (
	gameName string
	seed     int64
	maxPlies int
	verbose  bool
)

func main() {
	root := &cobra.Command{
		Use:   "example",
		Short: "Play a random playout of a bundled GDL game",
		RunE:  run,
	}
	root.Flags().StringVar(&gameName, "game", "tictactoe", "game to play: tictactoe, counter, or puzzle")
	root.Flags().Int64Var(&seed, "seed", 1, "random seed for move selection")
	root.Flags().IntVar(&maxPlies, "max-plies", 20, "abort the playout after this many plies")
	root.Flags().BoolVar(&verbose, "verbose", false, "log engine internals")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func rules(name string) ([]gdl.Term, error) {
	switch name {
	case "tictactoe":
		return games.TicTacToe(), nil
	case "counter":
		return games.Counter(), nil
	case "puzzle":
		return games.TilePuzzle(), nil
	default:
		return nil, fmt.Errorf("unknown game %q", name)
	}
}

func run(cmd *cobra.Command, args []string) error {
	logger := zap.NewNop()
	if verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		logger = l
	}

	rs, err := rules(gameName)
	if err != nil {
		return err
	}
	eng := gdl.NewEngine(gdl.WithLogger(logger))
	if err := eng.CreateGame(gameName, rs); err != nil {
		return err
	}

	roles, err := eng.Roles(gameName)
	if err != nil {
		return err
	}
	fmt.Printf("=== %s (roles: %v) ===\n", gameName, roles)

	rng := rand.New(rand.NewSource(seed))
	var moveHistory [][]gdl.Term
	var history gdl.TruthHistory

	for ply := 0; ply <= maxPlies; ply++ {
		history, err = eng.TruthHistory(gameName, moveHistory, history)
		if err != nil {
			return err
		}
		state, err := gdl.FinalTruthState(history)
		if err != nil {
			return err
		}
		fmt.Printf("\nply %d: %s\n", ply, state)

		terminal, err := eng.IsTerminal(gameName, state)
		if err != nil {
			return err
		}
		if terminal {
			for _, role := range roles {
				value, ok, err := eng.GoalValue(gameName, state, role)
				if err != nil {
					return err
				}
				if ok {
					fmt.Printf("goal(%s) = %d\n", role, value)
				}
			}
			fmt.Println("terminal")
			return nil
		}

		joint, err := eng.LegalJointMoves(gameName, state)
		if err != nil {
			return err
		}
		picked := make([]gdl.Term, len(joint))
		for i, options := range joint {
			if len(options) == 0 {
				return fmt.Errorf("role %s has no legal move", roles[i])
			}
			picked[i] = options[rng.Intn(len(options))]
		}
		prepared, err := eng.PrepareMoves(gameName, picked)
		if err != nil {
			return err
		}
		fmt.Printf("moves: %v\n", prepared)
		moveHistory = append(moveHistory, prepared)
	}
	return fmt.Errorf("playout did not terminate within %d plies", maxPlies)
}
