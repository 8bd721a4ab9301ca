// The sceneshell command runs an interactive shell for building up a
// scene by hand and capturing frames from it.
package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ergochat/readline"

	rt "github.com/kallsen/phongtracer"
)

// pngFrame adapts an rt.Frame to image.Image so it can be handed to
// image/png directly.
type pngFrame struct {
	frame rt.Frame
}

func (f pngFrame) ColorModel() color.Model { return color.RGBA64Model }

func (f pngFrame) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.frame.Width, f.frame.Height)
}

func (f pngFrame) At(x, y int) color.Color {
	pixel := f.frame.Pixels[y*f.frame.Width+x]
	return &pixel
}

type Command struct {
	// Symbol is the canonical name of the command.
	// It should include the leading ":".
	Symbol       string
	Aliases      []string
	ExpectedArgs []string // For generating help.
	HelpText     string
	Run          func(*State) error
}

type State struct {
	args     []string
	scene    *rt.Scene
	commands []*Command
}

// errQuit is a signal to the main loop to quit.
var errQuit = errors.New("quit")

func main() {
	rl, err := readline.NewFromConfig(&readline.Config{
		Prompt:       "scene> ",
		HistoryFile:  readlineHistoryFilePath(),
		HistoryLimit: 10000,
	})
	if err != nil {
		log.Fatalf("readline init error: %v", err)
	}

	scene := rt.New()

	var commands []*Command
	commandLookup := make(map[string]*Command)

	registerCommand := func(command *Command) {
		mustAddToLookup := func(symbol string) {
			if commandLookup[symbol] != nil {
				log.Fatalf("duplicate command: %v vs %v", command, commandLookup[symbol])
			}
			commandLookup[symbol] = command
		}
		commands = append(commands, command)
		mustAddToLookup(command.Symbol)
		for _, alias := range command.Aliases {
			mustAddToLookup(alias)
		}
	}

	registerCommand(&Command{
		Symbol:       ":camera",
		Aliases:      []string{":cam"},
		ExpectedArgs: []string{"<h> <w> <px> <py> <pz>"},
		HelpText:     "Register the camera looking down +Y with the given resolution and position",
		Run:          cmdCamera,
	})
	registerCommand(&Command{
		Symbol:       ":light",
		Aliases:      []string{":l"},
		ExpectedArgs: []string{"<px> <py> <pz> <intensity>"},
		HelpText:     "Register the light at the given position",
		Run:          cmdLight,
	})
	registerCommand(&Command{
		Symbol:       ":sphere",
		Aliases:      []string{":sp"},
		ExpectedArgs: []string{"<name> <cx> <cy> <cz> <radius> <r> <g> <b> <reflect>"},
		HelpText:     "Register a sphere with diffuse colour <r g b> and ambient at 0.2 of it",
		Run:          cmdSphere,
	})
	registerCommand(&Command{
		Symbol:       ":deregister",
		Aliases:      []string{":rm"},
		ExpectedArgs: []string{"<name>"},
		HelpText:     "Deregister the named object",
		Run: func(st *State) error {
			if len(st.args) != 1 {
				return errors.New("usage: :deregister <name>")
			}
			return st.scene.Deregister(st.args[0])
		},
	})
	registerCommand(&Command{
		Symbol:       ":eps",
		ExpectedArgs: []string{"<eps>"},
		HelpText:     "Set the self-intersection epsilon",
		Run: func(st *State) error {
			f, err := parseFloat(st.args, 0)
			if err != nil {
				return err
			}
			return st.scene.SetEps(f)
		},
	})
	registerCommand(&Command{
		Symbol:       ":reflect",
		ExpectedArgs: []string{"<max_reflections>"},
		HelpText:     "Set the maximum bounce count",
		Run: func(st *State) error {
			if len(st.args) != 1 {
				return errors.New("usage: :reflect <max_reflections>")
			}
			n, err := strconv.Atoi(st.args[0])
			if err != nil {
				return err
			}
			return st.scene.SetMaxReflections(n)
		},
	})
	registerCommand(&Command{
		Symbol:       ":capture",
		Aliases:      []string{":c"},
		ExpectedArgs: []string{"<out_file.png>"},
		HelpText:     "Render the current scene and write it to a PNG",
		Run:          cmdCapture,
	})
	registerCommand(&Command{
		Symbol:   ":frames",
		HelpText: "Print the number of frames captured so far",
		Run: func(st *State) error {
			fmt.Printf("frames: %d\n", len(st.scene.Frames()))
			return nil
		},
	})
	registerCommand(&Command{
		Symbol:   ":help",
		Aliases:  []string{":h"},
		HelpText: "Prints this help text",
		Run:      showHelp,
	})
	registerCommand(&Command{
		Symbol:   ":quit",
		Aliases:  []string{":q"},
		HelpText: "Exit the shell",
		Run: func(st *State) error {
			return errQuit
		},
	})

	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
				// Exit gracefully on expected errors.
				return
			}
			log.Fatalf("readline error: %v", err)
		}
		line = strings.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		args := parseCommandArgs(line)
		if len(args) == 0 {
			continue
		}
		cmd := commandLookup[args[0]]
		if cmd == nil {
			fmt.Printf("Unknown command: %v\n", args[0])
			continue
		}
		err = cmd.Run(&State{
			args:     args[1:],
			scene:    scene,
			commands: commands,
		})
		if errors.Is(err, errQuit) {
			return
		}
		if err != nil {
			fmt.Printf("command error: %v\n", err)
			continue
		}
	}
}

func cmdCamera(st *State) error {
	if len(st.args) != 5 {
		return errors.New("usage: :camera <h> <w> <px> <py> <pz>")
	}
	h, err := strconv.Atoi(st.args[0])
	if err != nil {
		return err
	}
	w, err := strconv.Atoi(st.args[1])
	if err != nil {
		return err
	}
	pos, err := parseVec3(st.args[2:5])
	if err != nil {
		return err
	}
	return st.scene.RegisterCamera(rt.Camera{
		Position:   pos,
		Resolution: rt.Resolution{Height: h, Width: w},
		Screen:     rt.ScreenVectors{ToScreen: rt.Vec3{Y: 1}, North: rt.Vec3{Z: 1}},
		Background: rt.RGB(0, 0, 0),
	})
}

func cmdLight(st *State) error {
	if len(st.args) != 4 {
		return errors.New("usage: :light <px> <py> <pz> <intensity>")
	}
	pos, err := parseVec3(st.args[:3])
	if err != nil {
		return err
	}
	intensity, err := strconv.ParseFloat(st.args[3], 64)
	if err != nil {
		return err
	}
	return st.scene.RegisterLight(rt.Light{
		Position:  pos,
		Ambient:   rt.RGB(0.2, 0.2, 0.2),
		Diffuse:   rt.RGB(1, 1, 1),
		Specular:  rt.RGB(1, 1, 1),
		Intensity: intensity,
	})
}

func cmdSphere(st *State) error {
	if len(st.args) != 9 {
		return errors.New("usage: :sphere <name> <cx> <cy> <cz> <radius> <r> <g> <b> <reflect>")
	}
	name := st.args[0]
	centre, err := parseVec3(st.args[1:4])
	if err != nil {
		return err
	}
	radius, err := strconv.ParseFloat(st.args[4], 64)
	if err != nil {
		return err
	}
	colour, err := parseVec3(st.args[5:8])
	if err != nil {
		return err
	}
	reflect, err := strconv.ParseFloat(st.args[8], 64)
	if err != nil {
		return err
	}
	return st.scene.RegisterSphere(name, rt.Sphere{
		Centre:   centre,
		Radius:   radius,
		Ambient:  rt.Vec3{X: colour.X * 0.2, Y: colour.Y * 0.2, Z: colour.Z * 0.2},
		Diffuse:  colour,
		Specular: rt.RGB(1, 1, 1),
		Shine:    40,
		Reflect:  reflect,
	})
}

func cmdCapture(st *State) error {
	if len(st.args) != 1 {
		return errors.New("usage: :capture <out_file.png>")
	}
	frame, err := st.scene.CaptureFrame(context.Background())
	if err != nil {
		return err
	}
	f, err := os.Create(st.args[0])
	if err != nil {
		return err
	}
	defer f.Close()
	if err := png.Encode(f, pngFrame{frame}); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", st.args[0])
	return nil
}

func showHelp(st *State) error {
	usageHelp := make([]string, len(st.commands))
	maxLen := 0
	for i, command := range st.commands {
		parts := []string{command.Symbol}
		parts = append(parts, command.Aliases...)
		parts = append(parts, command.ExpectedArgs...)
		usageHelp[i] = strings.Join(parts, " ")
		maxLen = max(maxLen, len(usageHelp[i]))
	}
	fmt.Printf("Commands:\n")
	for i, command := range st.commands {
		fmt.Printf("  %-*s : %s\n", maxLen, usageHelp[i], command.HelpText)
	}
	return nil
}

func readlineHistoryFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		log.Printf("user home dir error: %v\n", err)
		return ""
	}
	return filepath.Join(home, ".sceneshell_history")
}

func parseCommandArgs(line string) []string {
	var args []string
	var start int
	for i := range line {
		curr := line[i]
		if strings.IndexByte(" \t\n\r", curr) != -1 {
			if start < i {
				args = append(args, line[start:i])
			}
			start = i + 1
		}
	}
	if start < len(line) {
		args = append(args, line[start:])
	}
	return args
}

func parseFloat(args []string, i int) (float64, error) {
	if i >= len(args) {
		return 0, fmt.Errorf("missing argument %d", i)
	}
	return strconv.ParseFloat(args[i], 64)
}

func parseVec3(args []string) (rt.Vec3, error) {
	if len(args) != 3 {
		return rt.Vec3{}, errors.New("expected 3 components")
	}
	x, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return rt.Vec3{}, err
	}
	y, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return rt.Vec3{}, err
	}
	z, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return rt.Vec3{}, err
	}
	return rt.Vec3{X: x, Y: y, Z: z}, nil
}
