package commands

import (
	"fmt"
	"strings"

	"github.com/instructa/coursegen/internal/scaffold"
)

// NewCmd implements the 'new' command.
type NewCmd struct {
	Lesson NewLessonCmd `cmd:"" help:"Create a new lesson from the pedagogical template"`
	Module NewModuleCmd `cmd:"" help:"Create a new module directory with an index document"`
}

// NewLessonCmd scaffolds a lesson file.
type NewLessonCmd struct {
	Dir      string   `short:"d" help:"Directory to create the lesson in" default:"."`
	Duration string   `help:"Duration hint for the frontmatter" default:"15 min"`
	Title    []string `arg:"" help:"Lesson title"`
}

func (n *NewLessonCmd) Run(_ *Global, _ *CLI) error {
	path, err := scaffold.Lesson(n.Dir, strings.Join(n.Title, " "), n.Duration)
	if err != nil {
		return err
	}
	fmt.Printf("Created lesson %s\n", path)
	return nil
}

// NewModuleCmd scaffolds a module directory.
type NewModuleCmd struct {
	Dir   string   `short:"d" help:"Content directory to create the module in" default:"."`
	Title []string `arg:"" help:"Module title"`
}

func (n *NewModuleCmd) Run(_ *Global, _ *CLI) error {
	dir, err := scaffold.Module(n.Dir, strings.Join(n.Title, " "))
	if err != nil {
		return err
	}
	fmt.Printf("Created module %s\n", dir)
	return nil
}
