// Package catalogue implements the "no ROM given" story picker: it
// scrapes the IF-Archive's zcode directory listing for downloadable
// story files, caches both the listing and fetched stories to disk under
// a hash of their cache key (the story URL, or a fixed key for the
// listing), and hands the chosen story's bytes to the caller's model
// factory once downloaded.
package catalogue

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const indexURL = "https://www.ifarchive.org/indexes/if-archive/games/zcode/"
const cacheDuration = 7 * 24 * time.Hour

var zcodeExtension = regexp.MustCompile(`\.z[345678]$`)
var releaseDatePattern = regexp.MustCompile(`\d{2}-\w{3}-\d{4}`)

var docStyle = lipgloss.NewStyle().Margin(1, 2)

type state int

const (
	stateLoading state = iota
	stateBrowsing
	stateDownloading
)

// CreateModel builds the next bubbletea model (the running story) once
// the host has story bytes in hand.
type CreateModel func(storyBytes []byte, storyPath string) (tea.Model, error)

type story struct {
	name        string
	releaseDate time.Time
	url         string
	description string
}

func (s story) Title() string       { return s.name }
func (s story) Description() string { return s.description }
func (s story) FilterValue() string { return s.name + " " + s.description }

type Model struct {
	state     state
	list      list.Model
	spinner   spinner.Model
	err       error
	createApp CreateModel
	selected  string
	cacheDir  string
}

// NewModel returns the catalogue browser's initial state. cacheDir may be
// empty, in which case nothing is cached between runs.
func NewModel(createApp CreateModel, cacheDir string) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.SetShowTitle(false)

	return Model{
		state:     stateLoading,
		list:      l,
		spinner:   sp,
		createApp: createApp,
		cacheDir:  cacheDir,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, fetchCatalogue(m.cacheDir))
}

type catalogueMsg []list.Item
type downloadedMsg struct {
	bytes []byte
	name  string
}
type errMsg struct{ error }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			if s, ok := m.list.SelectedItem().(story); ok {
				m.state = stateDownloading
				m.selected = s.name
				return m, fetchStory(s, m.cacheDir)
			}
		}

	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v)

	case catalogueMsg:
		m.state = stateBrowsing
		m.list.SetShowStatusBar(false)
		return m, m.list.SetItems([]list.Item(msg))

	case downloadedMsg:
		next, err := m.createApp(msg.bytes, msg.name)
		if err != nil {
			m.err = err
			return m, nil
		}
		return next, next.Init()

	case errMsg:
		m.err = msg
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.err != nil {
		return docStyle.Render("ifzm: " + m.err.Error())
	}
	switch m.state {
	case stateLoading:
		return "\n\n   " + m.spinner.View() + " Loading story catalogue...\n\n"
	case stateDownloading:
		return "\n\n   " + m.spinner.View() + " Downloading " + m.selected + "...\n\n"
	default:
		return docStyle.Render(m.list.View())
	}
}

func cachePath(cacheDir, key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(cacheDir, hex.EncodeToString(sum[:]))
}

func cacheFresh(path string) bool {
	info, err := os.Stat(path)
	return err == nil && time.Since(info.ModTime()) < cacheDuration
}

func writeCache(cacheDir, key string, data []byte) {
	if cacheDir == "" {
		return
	}
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return
	}
	_ = os.WriteFile(cachePath(cacheDir, key), data, 0o644)
}

type cachedCatalogue struct {
	Stories []cachedStory `json:"stories"`
}

type cachedStory struct {
	Name        string    `json:"name"`
	ReleaseDate time.Time `json:"release_date"`
	URL         string    `json:"url"`
	Description string    `json:"description"`
}

func fetchStory(s story, cacheDir string) tea.Cmd {
	return func() tea.Msg {
		if cacheDir != "" {
			path := cachePath(cacheDir, s.url)
			if cacheFresh(path) {
				if data, err := os.ReadFile(path); err == nil {
					return downloadedMsg{bytes: data, name: s.name}
				}
			}
		}

		client := &http.Client{Timeout: 60 * time.Second}
		resp, err := client.Get(s.url)
		if err != nil {
			return errMsg{err}
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return errMsg{err}
		}

		writeCache(cacheDir, s.url, data)
		return downloadedMsg{bytes: data, name: s.name}
	}
}

func fetchCatalogue(cacheDir string) tea.Cmd {
	return func() tea.Msg {
		if cacheDir != "" {
			path := cachePath(cacheDir, "catalogue")
			if cacheFresh(path) {
				if data, err := os.ReadFile(path); err == nil {
					var cached cachedCatalogue
					if json.Unmarshal(data, &cached) == nil {
						return catalogueMsg(toItems(cached))
					}
				}
			}
		}

		client := &http.Client{Timeout: 10 * time.Second}
		resp, err := client.Get(indexURL)
		if err != nil {
			return errMsg{err}
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return errMsg{fmt.Errorf("fetching catalogue: HTTP %d", resp.StatusCode)}
		}

		doc, err := goquery.NewDocumentFromReader(resp.Body)
		if err != nil {
			return errMsg{err}
		}

		stories := scrapeStories(doc)
		writeCache(cacheDir, "catalogue", marshalCatalogue(stories))
		return catalogueMsg(toListItems(stories))
	}
}

func scrapeStories(doc *goquery.Document) []story {
	var out []story
	doc.Find("dl dt").Each(func(_ int, dt *goquery.Selection) {
		href, _ := dt.Find("a").Attr("href")
		if !zcodeExtension.MatchString(href) {
			return
		}

		title := strings.ReplaceAll(dt.Find("a").Text(), "◆", "")
		releaseDate, _ := time.Parse("02-Jan-2006", releaseDatePattern.FindString(dt.Find("span").Text()))

		var description string
		dt.NextUntil("dt").Each(func(_ int, dd *goquery.Selection) {
			if dd.Find("p").Length() == 1 && description == "" {
				description = dd.Find("p").Text()
			}
		})

		out = append(out, story{
			name:        strings.TrimSpace(title),
			releaseDate: releaseDate,
			url:         "https://www.ifarchive.org" + href,
			description: strings.TrimSpace(description),
		})
	})
	return out
}

func toListItems(stories []story) []list.Item {
	items := make([]list.Item, len(stories))
	for i, s := range stories {
		items[i] = s
	}
	return items
}

func toItems(cached cachedCatalogue) []list.Item {
	stories := make([]story, len(cached.Stories))
	for i, cs := range cached.Stories {
		stories[i] = story{name: cs.Name, releaseDate: cs.ReleaseDate, url: cs.URL, description: cs.Description}
	}
	return toListItems(stories)
}

func marshalCatalogue(stories []story) []byte {
	cached := cachedCatalogue{Stories: make([]cachedStory, len(stories))}
	for i, s := range stories {
		cached.Stories[i] = cachedStory{Name: s.name, ReleaseDate: s.releaseDate, URL: s.url, Description: s.description}
	}
	data, _ := json.Marshal(cached)
	return data
}
