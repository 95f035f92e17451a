package watch

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattjoyce/inlet/internal/message"
)

const recentCount = 15

// --- Message types ---

type statsMsg message.Stats

type messagesMsg struct {
	Data  []message.Message
	Total int
}

type tickMsg time.Time

type errMsg error

// --- Commands ---

func tick() tea.Cmd {
	return tea.Tick(2*time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// fetchStats polls GET /stats.
func fetchStats(apiURL string) tea.Cmd {
	return func() tea.Msg {
		var st message.Stats
		if err := getJSON(apiURL+"/stats", &st); err != nil {
			return errMsg(err)
		}
		return statsMsg(st)
	}
}

// fetchRecent polls GET /messages for the newest rows. Listing is ordered
// (ts, message_id) ascending, so the tail is reached via offset.
func fetchRecent(apiURL string, total int) tea.Cmd {
	return func() tea.Msg {
		offset := 0
		if total > recentCount {
			offset = total - recentCount
		}

		var resp struct {
			Data  []message.Message `json:"data"`
			Total int               `json:"total"`
		}
		url := fmt.Sprintf("%s/messages?limit=%d&offset=%d", apiURL, recentCount, offset)
		if err := getJSON(url, &resp); err != nil {
			return errMsg(err)
		}
		return messagesMsg{Data: resp.Data, Total: resp.Total}
	}
}

func getJSON(url string, out any) error {
	client := &http.Client{Timeout: 3 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
