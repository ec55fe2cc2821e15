package cli

import (
	"errors"
	"io"

	"github.com/alexflint/go-arg"

	"github.com/imbecility/ytmp3dl/pkg/models"
)

const ProgramName = "ytmp3dl"

// ErrHelp is returned by ParseArgs after usage was printed for -h.
var ErrHelp = errors.New("help requested")

type Args struct {
	URLs     []string `arg:"positional" help:"the list of urls to download"`
	MP4      bool     `arg:"-v,--mp4" help:"sets filetype to mp4"`
	Path     string   `arg:"-p,--path" help:"changes download path"`
	ShowPath bool     `arg:"-s,--showpath" help:"show the default download path"`
	Debug    bool     `arg:"--debug" help:"enable debug logging"`
}

func (Args) Description() string {
	return "Downloads audio or video from URLs and saves it as mp3 or mp4.\n" +
		"Run without arguments to be prompted for everything."
}

// ParseArgs parses argv (without the program name). Usage and errors are written to w.
func ParseArgs(argv []string, w io.Writer) (Args, error) {
	var args Args
	p, err := arg.NewParser(arg.Config{Program: ProgramName}, &args)
	if err != nil {
		return Args{}, err
	}

	err = p.Parse(argv)
	switch {
	case errors.Is(err, arg.ErrHelp):
		p.WriteHelp(w)
		return Args{}, ErrHelp
	case err != nil:
		p.WriteUsage(w)
		return Args{}, err
	}
	return args, nil
}

// Request turns parsed arguments into a request, falling back to defaultDir.
func (a Args) Request(defaultDir string) models.InvocationRequest {
	req := models.InvocationRequest{
		URLs: a.URLs,
		Dir:  defaultDir,
	}
	if a.MP4 {
		req.Format = models.FormatMP4
	}
	if a.Path != "" {
		req.Dir = a.Path
	}
	return req
}
