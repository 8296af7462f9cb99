package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/briandowns/spinner"
	"github.com/elk-language/go-prompt"
	istrings "github.com/elk-language/go-prompt/strings"

	"nlterm/internal/display"
)

// ConsoleSession holds the state for one interactive console run.
type ConsoleSession struct {
	app       *App
	sessionID string
	exitFlag  bool
}

// completer suggests command names and aliases, and entries of the
// session's working directory once a command has been typed.
func (s *ConsoleSession) completer(d prompt.Document) ([]prompt.Suggest, istrings.RuneNumber, istrings.RuneNumber) {
	endIndex := d.CurrentRuneIndex()
	w := d.GetWordBeforeCursor()
	startIndex := endIndex - istrings.RuneCountInString(w)

	var suggestions []prompt.Suggest
	for _, term := range s.app.eng.Complete(s.sessionID, w) {
		desc := ""
		if spec, found := s.app.eng.Registry().Lookup(term); found {
			desc = spec.Description
		}
		suggestions = append(suggestions, prompt.Suggest{Text: term, Description: desc})
	}
	return suggestions, startIndex, endIndex
}

// prefix renders the prompt with the session's current directory base.
func (s *ConsoleSession) prefix() string {
	base := filepath.Base(s.app.eng.Workdir(s.sessionID))
	return fmt.Sprintf("nlterm:%s$ ", base)
}

// runConsole starts the interactive console with a REPL interface.
func (app *App) runConsole() {
	fmt.Println("nlterm - command terminal")
	if app.eng.HasTranslator() {
		fmt.Printf("Translation: %s (%s)\n", app.cfg.Provider, app.cfg.Model)
		fmt.Println("Type a command or describe what you want in plain language")
	} else {
		fmt.Println("No translation API key found; literal commands only")
	}
	fmt.Println("Type 'help' for commands, 'exit' or Ctrl+D to quit")
	fmt.Println()

	session := &ConsoleSession{
		app:       app,
		sessionID: app.eng.NewSession(),
	}
	defer app.eng.Drop(session.sessionID)

	p := prompt.New(
		session.executor,
		prompt.WithCompleter(session.completer),
		prompt.WithPrefixCallback(session.prefix),
		prompt.WithTitle("nlterm"),
		prompt.WithPrefixTextColor(prompt.Green),
		prompt.WithSuggestionBGColor(prompt.DarkBlue),
		prompt.WithSuggestionTextColor(prompt.White),
		prompt.WithSelectedSuggestionBGColor(prompt.Cyan),
		prompt.WithSelectedSuggestionTextColor(prompt.Black),
		prompt.WithDescriptionBGColor(prompt.DarkBlue),
		prompt.WithDescriptionTextColor(prompt.LightGray),
		prompt.WithSelectedDescriptionBGColor(prompt.Cyan),
		prompt.WithSelectedDescriptionTextColor(prompt.Black),
		prompt.WithMaxSuggestion(15),
		prompt.WithCompletionOnDown(),
		prompt.WithExitChecker(func(in string, breakline bool) bool {
			return session.exitFlag
		}),
		prompt.WithKeyBind(prompt.KeyBind{
			Key: prompt.ControlC,
			Fn: func(p *prompt.Prompt) bool {
				fmt.Println("\nGoodbye!")
				session.exitFlag = true
				return false
			},
		}),
		prompt.WithKeyBind(prompt.KeyBind{
			Key: prompt.ControlD,
			Fn: func(p *prompt.Prompt) bool {
				if p.Buffer().Text() == "" {
					fmt.Println("Goodbye!")
					session.exitFlag = true
				}
				return false
			},
		}),
	)

	p.Run()
}

// executor handles one input line from the REPL.
func (s *ConsoleSession) executor(input string) {
	if s.exitFlag {
		return
	}

	input = strings.TrimSpace(input)
	if input == "" {
		return
	}

	// Only non-literal input leaves the process; show a wait state for
	// the translation round trip.
	literal := s.app.eng.IsLiteral(input)
	var sp *spinner.Spinner
	if !literal {
		sp = display.NewSpinner("Translating...")
		sp.Start()
	}

	res := s.app.eng.Process(context.Background(), s.sessionID, input)

	if sp != nil {
		sp.Stop()
	}

	if !literal && res.Resolved != "" {
		display.ShowNote("> " + res.Resolved)
	}

	// Commands whose effect lives in the front-end.
	switch strings.ToLower(strings.TrimSpace(res.Resolved)) {
	case "exit", "quit":
		fmt.Println("Goodbye!")
		s.exitFlag = true
		return
	case "cls", "clear":
		fmt.Print("\033[2J\033[H")
		return
	}

	if !res.IsSuccess() {
		display.ShowError(res.Stderr)
		return
	}
	display.ShowContent(res.Stdout)
}
