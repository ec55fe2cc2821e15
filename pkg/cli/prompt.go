package cli

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/imbecility/ytmp3dl/pkg/models"
)

var urlSeparators = regexp.MustCompile(`[,\s]+`)

// SplitURLs splits s on any run of commas and whitespace.
func SplitURLs(s string) []string {
	var urls []string
	for _, part := range urlSeparators.Split(strings.TrimSpace(s), -1) {
		if part != "" {
			urls = append(urls, part)
		}
	}
	return urls
}

// Prompter asks for a request on an interactive terminal.
type Prompter struct {
	r *bufio.Reader
	w io.Writer
}

// NewPrompter reads answers from r and writes questions to w.
func NewPrompter(r io.Reader, w io.Writer) *Prompter {
	return &Prompter{r: bufio.NewReader(r), w: w}
}

// Ask runs the URL, format and path questions in that order.
func (p *Prompter) Ask(defaultDir string) (models.InvocationRequest, error) {
	line, err := p.ask("Enter URL(s):")
	if err != nil {
		return models.InvocationRequest{}, err
	}
	req := models.InvocationRequest{URLs: SplitURLs(line), Dir: defaultDir}

	answer, err := p.ask("Download as mp4 [y], or mp3 [n]?")
	if err != nil {
		return models.InvocationRequest{}, err
	}
	if answer == "y" {
		req.Format = models.FormatMP4
	}

	answer, err = p.ask(fmt.Sprintf("Download all to: %s? [y/n]", defaultDir))
	if err != nil {
		return models.InvocationRequest{}, err
	}
	if answer == "n" {
		dir, err := p.ask("Enter Path:")
		if err != nil {
			return models.InvocationRequest{}, err
		}
		req.Dir = dir
	}

	return req, nil
}

func (p *Prompter) ask(question string) (string, error) {
	if _, err := fmt.Fprint(p.w, question); err != nil {
		return "", err
	}
	line, err := p.r.ReadString('\n')
	if err != nil && !(err == io.EOF && line != "") {
		return "", fmt.Errorf("read answer to %q: %w", question, err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
