package caret

import (
	"os"
	"strings"

	"github.com/glycerine/liner"
)

// completion candidates: the special forms, then the builtins.
func completionKeywords() []string {
	words := []string{`(`, `(def! `, `(if `, `(let* `}
	for _, b := range AllBuiltinFunctions() {
		words = append(words, "("+b.Name+" ")
	}
	return append(words, `.ast `, `.clear`, `.gls`, `.load `, `.ls`, `.quit`, `.save `, `.tokens `, `.verb`)
}

type Prompter struct {
	prompt      string
	historyFile string
	prompter    *liner.State
}

func NewPrompter(prompt, historyFile string) *Prompter {
	p := &Prompter{
		prompt:      prompt,
		historyFile: historyFile,
		prompter:    liner.NewLiner(),
	}

	p.prompter.SetCtrlCAborts(false)

	keywords := completionKeywords()
	p.prompter.SetCompleter(func(line string) (c []string) {
		for _, n := range keywords {
			if strings.HasPrefix(n, line) {
				c = append(c, n)
			}
		}
		return
	})

	if historyFile != "" {
		if f, err := os.Open(historyFile); err == nil {
			p.prompter.ReadHistory(f)
			f.Close()
		}
	}

	return p
}

func (p *Prompter) Close() {
	defer p.prompter.Close()
	if p.historyFile == "" {
		return
	}
	if f, err := os.Create(p.historyFile); err != nil {
		logger.Warningf("error writing history file: %v", err)
	} else {
		p.prompter.WriteHistory(f)
		f.Close()
	}
}

func (p *Prompter) Getline() (line string, err error) {
	line, err = p.prompter.Prompt(p.prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(line) != "" {
		p.prompter.AppendHistory(line)
	}
	return line, nil
}
