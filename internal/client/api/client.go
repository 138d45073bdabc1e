package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"reversi/internal/client/display"
	"reversi/internal/core"
)

// pollTimeout exceeds the server's long-poll window
const pollTimeout = 35 * time.Second

type HealthResponse struct {
	Status  string `json:"status"`
	Time    int64  `json:"time"`
	Storage string `json:"storage,omitempty"`
	Games   int    `json:"games"`
}

// APIError is returned for any response with status >= 400
type APIError struct {
	Status   int
	Response core.ErrorResponse
}

func (e *APIError) Error() string {
	if e.Response.Code != "" {
		return fmt.Sprintf("request failed with status %d (%s)", e.Status, e.Response.Code)
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Verbose    bool
	Out        io.Writer
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: pollTimeout,
		},
		Out: os.Stdout,
	}
}

func (c *Client) SetVerbose(v bool) {
	c.Verbose = v
}

// SetBaseURL updates the API base URL for the client
func (c *Client) SetBaseURL(url string) {
	c.BaseURL = strings.TrimRight(url, "/")
}

func (c *Client) doRequest(method, path string, body interface{}, result interface{}) error {
	var bodyReader io.Reader
	var bodyStr string
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(jsonData)
		bodyStr = string(jsonData)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, bodyReader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	fmt.Fprintf(c.Out, "\n%s[API] %s %s%s\n", display.Blue, method, path, display.Reset)
	if bodyStr != "" {
		if c.Verbose {
			fmt.Fprintf(c.Out, "%sRequest Body:%s\n", display.Cyan, display.Reset)
			display.PrettyPrintJSON(c.Out, json.RawMessage(bodyStr))
		} else {
			fmt.Fprintf(c.Out, "%s%s%s\n", display.Blue, bodyStr, display.Reset)
		}
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		fmt.Fprintf(c.Out, "%s[ERROR] %s%s\n", display.Red, err.Error(), display.Reset)
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	statusColor := display.Green
	if resp.StatusCode >= 400 {
		statusColor = display.Red
	}
	fmt.Fprintf(c.Out, "%s[%d %s]%s\n", statusColor, resp.StatusCode, http.StatusText(resp.StatusCode), display.Reset)

	if c.Verbose && len(respBody) > 0 {
		fmt.Fprintf(c.Out, "%sResponse Body:%s\n", display.Cyan, display.Reset)
		if json.Valid(respBody) {
			display.PrettyPrintJSON(c.Out, json.RawMessage(respBody))
		} else {
			fmt.Fprintln(c.Out, string(respBody))
		}
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		if err := json.Unmarshal(respBody, &apiErr.Response); err == nil {
			if !c.Verbose {
				fmt.Fprintf(c.Out, "%sError: %s%s\n", display.Red, apiErr.Response.Error, display.Reset)
				if apiErr.Response.Details != "" {
					fmt.Fprintf(c.Out, "%sDetails: %s%s\n", display.Red, apiErr.Response.Details, display.Reset)
				}
			}
		} else if !c.Verbose {
			fmt.Fprintf(c.Out, "%s%s%s\n", display.Red, string(respBody), display.Reset)
		}
		return apiErr
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			fmt.Fprintf(c.Out, "%sResponse parse error: %s%s\n", display.Red, err.Error(), display.Reset)
			return err
		}
	}

	return nil
}

// API Methods

func (c *Client) Health() (*HealthResponse, error) {
	var resp HealthResponse
	err := c.doRequest("GET", "/health", nil, &resp)
	return &resp, err
}

func (c *Client) CreateGame(req *core.CreateGameRequest) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.doRequest("POST", "/api/v1/games", req, &resp)
	return &resp, err
}

func (c *Client) ListGames() (*core.GameListResponse, error) {
	var resp core.GameListResponse
	err := c.doRequest("GET", "/api/v1/games", nil, &resp)
	return &resp, err
}

func (c *Client) GetGame(gameID string) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.doRequest("GET", "/api/v1/games/"+url.PathEscape(gameID), nil, &resp)
	return &resp, err
}

// WaitForUpdate long-polls until the game moves past version
func (c *Client) WaitForUpdate(gameID string, version int) (*core.GameResponse, error) {
	var resp core.GameResponse
	path := fmt.Sprintf("/api/v1/games/%s?wait=true&version=%d", url.PathEscape(gameID), version)
	err := c.doRequest("GET", path, nil, &resp)
	return &resp, err
}

func (c *Client) DeleteGame(gameID string) error {
	return c.doRequest("DELETE", "/api/v1/games/"+url.PathEscape(gameID), nil, nil)
}

// MakeMove plays move. A non-empty color makes the server reject the move
// when it is not that side's turn.
func (c *Client) MakeMove(gameID, move, color string) (*core.GameResponse, error) {
	req := &core.MoveRequest{Move: move, Color: color}
	var resp core.GameResponse
	err := c.doRequest("POST", "/api/v1/games/"+url.PathEscape(gameID)+"/moves", req, &resp)
	return &resp, err
}

func (c *Client) UndoMoves(gameID string, count int) (*core.GameResponse, error) {
	req := &core.UndoRequest{Count: count}
	var resp core.GameResponse
	err := c.doRequest("POST", "/api/v1/games/"+url.PathEscape(gameID)+"/undo", req, &resp)
	return &resp, err
}

func (c *Client) GetBoard(gameID string) (*core.BoardResponse, error) {
	var resp core.BoardResponse
	err := c.doRequest("GET", "/api/v1/games/"+url.PathEscape(gameID)+"/board", nil, &resp)
	return &resp, err
}

func (c *Client) GetLegalMoves(gameID, color string) (*core.LegalMovesResponse, error) {
	path := "/api/v1/games/" + url.PathEscape(gameID) + "/legal-moves"
	if color != "" {
		path += "?color=" + url.QueryEscape(color)
	}
	var resp core.LegalMovesResponse
	err := c.doRequest("GET", path, nil, &resp)
	return &resp, err
}

// RawRequest performs a raw HTTP request for debugging purposes
func (c *Client) RawRequest(method, path string, body string) error {
	var bodyData interface{}
	if body != "" {
		if err := json.Unmarshal([]byte(body), &bodyData); err != nil {
			// Try as raw string
			bodyData = body
		}
	}

	var result json.RawMessage
	if err := c.doRequest(method, path, bodyData, &result); err != nil {
		return err
	}
	// Verbose mode already echoed the body
	if !c.Verbose && len(result) > 0 {
		display.PrettyPrintJSON(c.Out, result)
	}
	return nil
}
