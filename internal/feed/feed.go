package feed

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/reliefscout/reliefscout/internal/model"
)

// Item is one entry from a disaster feed, normalized across RSS and Atom.
type Item struct {
	Source    string    `json:"source"`
	Title     string    `json:"title"`
	Link      string    `json:"link"`
	Summary   string    `json:"summary,omitempty"`
	Published time.Time `json:"published,omitempty"`
}

// Client fetches and parses the configured situational-awareness feeds.
type Client struct {
	httpClient *http.Client
	userAgent  string
	sources    map[string]string
}

// NewClient creates a feed client from the feed and HTTP configuration.
func NewClient(cfg *model.FeedConfig, httpCfg *model.HTTPConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: httpCfg.Timeout},
		userAgent:  httpCfg.UserAgent,
		sources:    cfg.Sources,
	}
}

// Sources returns the configured feed names, sorted.
func (c *Client) Sources() []string {
	names := make([]string, 0, len(c.sources))
	for name := range c.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Fetch retrieves one named feed and returns its items, newest first.
func (c *Client) Fetch(ctx context.Context, name string) ([]Item, error) {
	feedURL, ok := c.sources[name]
	if !ok {
		return nil, fmt.Errorf("unknown feed: %s", name)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed %s returned status %d", name, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read feed %s: %w", name, err)
	}

	items, err := Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", name, err)
	}

	for i := range items {
		items[i].Source = name
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Published.After(items[j].Published)
	})

	return items, nil
}

// FetchAll retrieves every configured feed. Individual feed failures are
// reported per-source without discarding the others.
func (c *Client) FetchAll(ctx context.Context) ([]Item, map[string]error) {
	var all []Item
	failures := make(map[string]error)

	for _, name := range c.Sources() {
		items, err := c.Fetch(ctx, name)
		if err != nil {
			failures[name] = err
			continue
		}
		all = append(all, items...)
	}

	return all, failures
}

// rssDocument covers the RSS 2.0 shape the disaster feeds use
type rssDocument struct {
	XMLName xml.Name `xml:"rss"`
	Channel struct {
		Items []struct {
			Title       string `xml:"title"`
			Link        string `xml:"link"`
			Description string `xml:"description"`
			PubDate     string `xml:"pubDate"`
		} `xml:"item"`
	} `xml:"channel"`
}

// atomDocument covers the Atom shape used by the USGS feeds
type atomDocument struct {
	XMLName xml.Name `xml:"feed"`
	Entries []struct {
		Title string `xml:"title"`
		Links []struct {
			Href string `xml:"href,attr"`
			Rel  string `xml:"rel,attr"`
		} `xml:"link"`
		Summary string `xml:"summary"`
		Updated string `xml:"updated"`
	} `xml:"entry"`
}

// Parse decodes an RSS or Atom payload into normalized items.
func Parse(body []byte) ([]Item, error) {
	var rss rssDocument
	if err := xml.Unmarshal(body, &rss); err == nil && len(rss.Channel.Items) > 0 {
		items := make([]Item, 0, len(rss.Channel.Items))
		for _, entry := range rss.Channel.Items {
			items = append(items, Item{
				Title:     strings.TrimSpace(entry.Title),
				Link:      strings.TrimSpace(entry.Link),
				Summary:   strings.TrimSpace(entry.Description),
				Published: parseFeedTime(entry.PubDate),
			})
		}
		return items, nil
	}

	var atom atomDocument
	if err := xml.Unmarshal(body, &atom); err == nil && len(atom.Entries) > 0 {
		items := make([]Item, 0, len(atom.Entries))
		for _, entry := range atom.Entries {
			link := ""
			for _, l := range entry.Links {
				if l.Rel == "" || l.Rel == "alternate" {
					link = l.Href
					break
				}
			}
			items = append(items, Item{
				Title:     strings.TrimSpace(entry.Title),
				Link:      strings.TrimSpace(link),
				Summary:   strings.TrimSpace(entry.Summary),
				Published: parseFeedTime(entry.Updated),
			})
		}
		return items, nil
	}

	return nil, fmt.Errorf("unrecognized feed format")
}

// parseFeedTime tries the timestamp layouts seen across the feeds.
// A zero time means the entry carried no parseable date.
func parseFeedTime(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}

	layouts := []string{
		time.RFC1123Z,
		time.RFC1123,
		time.RFC3339,
		"Mon, 2 Jan 2006 15:04:05 -0700",
		"2006-01-02T15:04:05Z",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
