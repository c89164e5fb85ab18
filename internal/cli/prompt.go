package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/golang/geo/r2"
)

// prompter asks questions on an interactive terminal, or of whatever is
// piped into standard input.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewReader(in), out: out}
}

// line prints msg and reads one line of input, without its line ending.
func (p *prompter) line(msg string) (string, error) {
	fmt.Fprint(p.out, msg)
	s, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || s == "") {
		return "", fmt.Errorf("reading answer: %w", err)
	}
	return strings.TrimSpace(s), nil
}

// confirm asks whether to process a granule. Only "N" or "n" declines.
func (p *prompter) confirm(name string) (bool, error) {
	ans, err := p.line("\nWould you like to process\n" + name + "\n\n(Y/N)")
	if err != nil {
		return false, err
	}
	return ans != "N" && ans != "n", nil
}

// yes asks a yes/no question. Only "Y" or "y" accepts.
func (p *prompter) yes(msg string) (bool, error) {
	ans, err := p.line(msg)
	if err != nil {
		return false, err
	}
	return ans == "Y" || ans == "y", nil
}

// float asks for a number until it gets one.
func (p *prompter) float(ask string) (float64, error) {
	msg := ask
	for {
		s, err := p.line(msg)
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err == nil {
			return v, nil
		}
		msg = "That is not a number. " + ask
	}
}

// coordinates asks for a latitude and a longitude, then asks again for
// either one until it lies inside env (X = longitude, Y = latitude).
func (p *prompter) coordinates(env r2.Rect) (lat, lon float64, err error) {
	if lat, err = p.float("\nPlease enter the latitude you would like to analyze (Deg. N): "); err != nil {
		return 0, 0, err
	}
	if lon, err = p.float("Please enter the longitude you would like to analyze (Deg. E): "); err != nil {
		return 0, 0, err
	}
	for lat < env.Y.Lo || lat > env.Y.Hi {
		if lat, err = p.float("The latitude you entered is out of range. Please enter a valid latitude: "); err != nil {
			return 0, 0, err
		}
	}
	for lon < env.X.Lo || lon > env.X.Hi {
		if lon, err = p.float("The longitude you entered is out of range. Please enter a valid longitude: "); err != nil {
			return 0, 0, err
		}
	}
	return lat, lon, nil
}
