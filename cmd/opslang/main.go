package main

import (
	"bufio"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"strings"

	"opslang/internal"
)

func main() {
	cfg, err := internal.LoadConfig("opslang.yaml")
	if err != nil {
		log.Fatal(err)
	}
	internal.SetTrace(cfg.Trace)

	stdin := bufio.NewReader(os.Stdin)

	fmt.Print("Path to source file (or 'manual'): ")
	choice, err := stdin.ReadString('\n')
	if err != nil && choice == "" {
		log.Fatal(err)
	}
	choice = strings.TrimSpace(choice)

	var source string
	if choice == "manual" {
		fmt.Println("Enter program text, terminate with EOF (Ctrl-D).")
		text, err := ioutil.ReadAll(stdin)
		if err != nil {
			log.Fatal(err)
		}
		source = string(text)
	} else {
		text, err := ioutil.ReadFile(choice)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		source = string(text)
	}

	opts := []internal.Option{
		internal.WithInput(stdin),
		internal.WithOutput(os.Stdout),
		internal.WithPrompt(os.Stdout),
		internal.WithListings(os.Stdout),
	}
	if cfg.Quiet {
		opts = append(opts, internal.WithPrompt(ioutil.Discard))
	}

	if !internal.New(opts...).RunSource(source) {
		os.Exit(1)
	}
}
