// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

const platePrompt = "Ingresá una patente (ENTER para procesar todas): "

// promptPlate asks for a plate on out and reads one line from in. An empty
// answer or EOF means no filter.
func promptPlate(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, platePrompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func isInteractive(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
