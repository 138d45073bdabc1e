package commands

import (
	"fmt"
	"strings"
	"time"

	"reversi/internal/client/display"
)

func (r *Registry) registerDebugCommands() {
	r.Register(&Command{
		Name:        "health",
		ShortName:   ".",
		Description: "Check server health",
		Usage:       "health",
		Handler:     healthHandler,
	})

	r.Register(&Command{
		Name:        "url",
		ShortName:   "/",
		Description: "Set API base URL",
		Usage:       "url [apiUrl]",
		Handler:     urlHandler,
	})

	r.Register(&Command{
		Name:        "raw",
		ShortName:   ":",
		Description: "Send raw API request",
		Usage:       "raw <method> <path> [json-body]",
		Handler:     rawRequestHandler,
	})

	r.Register(&Command{
		Name:        "clear",
		ShortName:   "-",
		Description: "Clear screen",
		Usage:       "clear",
		Handler:     clearHandler,
	})
}

// rawMethods are the verbs the API routes accept
var rawMethods = map[string]bool{"GET": true, "POST": true, "DELETE": true}

func healthHandler(s Session, args []string) error {
	resp, err := s.GetClient().Health()
	if err != nil {
		return err
	}

	out := s.Out()
	fmt.Fprintf(out, "%sServer Health:%s\n", display.Cyan, display.Reset)
	fmt.Fprintf(out, "  Status:  %s\n", resp.Status)
	fmt.Fprintf(out, "  Time:    %s\n", time.Unix(resp.Time, 0).Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "  Games:   %d\n", resp.Games)

	switch resp.Storage {
	case "ok":
		fmt.Fprintf(out, "  Storage: %sok%s\n", display.Green, display.Reset)
	case "degraded":
		fmt.Fprintf(out, "  Storage: %sdegraded%s (checkpoints are not being written)\n", display.Red, display.Reset)
	case "disabled", "":
		fmt.Fprintf(out, "  Storage: %sdisabled%s (games are lost on restart)\n", display.Yellow, display.Reset)
	default:
		fmt.Fprintf(out, "  Storage: %s\n", resp.Storage)
	}

	if id := s.GetCurrentGame(); id != "" {
		fmt.Fprintf(out, "  Current: %s\n", id)
	}
	return nil
}

func urlHandler(s Session, args []string) error {
	if len(args) == 0 {
		fmt.Fprintf(s.Out(), "Current API URL: %s\n", s.GetAPIBaseURL())
		return nil
	}

	url := args[0]
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "http://" + url
	}

	s.SetAPIBaseURL(url)
	s.GetClient().SetBaseURL(url)

	fmt.Fprintf(s.Out(), "%sAPI URL set to: %s%s\n", display.Cyan, url, display.Reset)
	return nil
}

func rawRequestHandler(s Session, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: raw <method> <path> [json-body]")
	}

	method := strings.ToUpper(args[0])
	if !rawMethods[method] {
		return fmt.Errorf("unsupported method: %s (use GET, POST or DELETE)", args[0])
	}
	path := args[1]
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	body := ""
	if len(args) > 2 {
		body = strings.Join(args[2:], " ")
	}

	return s.GetClient().RawRequest(method, path, body)
}

func clearHandler(s Session, args []string) error {
	fmt.Fprint(s.Out(), "\033[H\033[2J")
	return nil
}
