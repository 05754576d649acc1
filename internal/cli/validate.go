package cli

import (
	"bufio"
	"bytes"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/AndreyAkinshin/testrelay/internal/errors"
	"github.com/AndreyAkinshin/testrelay/internal/schema"
)

// maxLineSize bounds a single NDJSON line.
const maxLineSize = 4 << 20

func validateCommand(e env) *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Check a projected NDJSON stream against the embedded event schemas",
		ArgsUsage: "[file|-]",
		Action:    withSettings(e, func(c *cli.Context, s *settings) error { return cmdValidate(c, e, s) }),
	}
}

func cmdValidate(c *cli.Context, e env, s *settings) error {
	in, done, err := openInput(c, e)
	if err != nil {
		return err
	}
	defer done()

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var total, invalid, lineNo int
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		total++
		if err := schema.ValidateLine(line); err != nil {
			invalid++
			s.out.Errorln("line %d: %v", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "read input")
	}

	s.out.Info("Checked %d lines.", lineNo)
	if invalid > 0 {
		s.out.FinalFailure("%d of %d events invalid.", invalid, total)
		return errors.Validation("", fmt.Errorf("%d invalid events", invalid))
	}
	s.out.Success("All %d events valid.", total)
	return nil
}
