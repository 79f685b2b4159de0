package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/lox/holdem-engine/internal/phh"
)

// HandHistoryCmd is the root command for PHH utilities.
type HandHistoryCmd struct {
	Show HandHistoryShowCmd `cmd:"show" help:"Print a summary of PHH hand files"`
}

// HandHistoryShowCmd prints the players, stacks and actions of PHH files.
// A directory argument shows every .phh file below it.
type HandHistoryShowCmd struct {
	Paths   []string `arg:"" name:"path" help:"PHH files or directories"`
	Actions bool     `short:"a" help:"Include the action list"`
}

func (cmd HandHistoryShowCmd) Run() error {
	files, err := collectPHHFiles(cmd.Paths)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no .phh files found")
	}
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return err
		}
		hand, err := phh.Decode(data)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		renderHand(os.Stdout, hand, cmd.Actions)
	}
	return nil
}

func collectPHHFiles(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(p, ".phh") {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	slices.Sort(files)
	return files, nil
}

func renderHand(w io.Writer, hand *phh.HandHistory, actions bool) {
	fmt.Fprintf(w, "Hand %s", hand.HandID)
	if name, ok := hand.Metadata["hand_name"].(string); ok {
		fmt.Fprintf(w, " (%s)", name)
	}
	fmt.Fprintln(w)

	for i, player := range hand.Players {
		line := fmt.Sprintf("  %-12s %6d -> %6d", player, hand.StartingStacks[i], hand.FinishingStacks[i])
		if i < len(hand.Winnings) && hand.Winnings[i] > 0 {
			line += fmt.Sprintf("  won %d", hand.Winnings[i])
		}
		fmt.Fprintln(w, line)
	}
	if actions {
		for _, a := range hand.Actions {
			fmt.Fprintf(w, "    %s\n", a)
		}
	}
}
