package feed

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"github.com/samber/lo"

	"feedsnap/internal/models"
)

const untitledPost = "Untitled"

// Parser normalizes one payload format into a snapshot. sourceURL is the
// candidate URL the payload came from and ends up in the snapshot's source
// field.
type Parser interface {
	Parse(data []byte, sourceURL string) (*models.Snapshot, error)
}

// FeedXMLParser handles the XML family. A single gofeed parse detects whether
// the document is RSS 2.0 or Atom; the two formats then get their own field
// mapping because they carry different subsets of post metadata.
type FeedXMLParser struct {
	limit     int
	libParser *gofeed.Parser
}

func NewFeedXMLParser(limit int) *FeedXMLParser {
	return &FeedXMLParser{
		limit:     limit,
		libParser: gofeed.NewParser(),
	}
}

func (p *FeedXMLParser) Parse(data []byte, sourceURL string) (*models.Snapshot, error) {
	parsed, err := p.libParser.ParseString(string(data))
	if err != nil {
		return nil, &ParseError{Format: FormatFeedXML, Err: err}
	}

	items := parsed.Items
	if len(items) > p.limit {
		items = items[:p.limit]
	}

	if parsed.FeedType == "atom" {
		return &models.Snapshot{
			Source: sourceURL,
			Posts: lo.Map(items, func(item *gofeed.Item, _ int) models.Post {
				return atomPost(item)
			}),
		}, nil
	}

	return &models.Snapshot{
		Source:    sourceURL,
		FeedTitle: strings.TrimSpace(parsed.Title),
		FeedURL:   strings.TrimSpace(parsed.Link),
		Posts: lo.Map(items, func(item *gofeed.Item, _ int) models.Post {
			return rssPost(item)
		}),
	}, nil
}

func rssPost(item *gofeed.Item) models.Post {
	return models.Post{
		Title:      strings.TrimSpace(item.Title),
		Subtitle:   strings.TrimSpace(item.Description),
		URL:        strings.TrimSpace(item.Link),
		Date:       pubDateUTC(item.PublishedParsed),
		CoverImage: coverImage(item),
	}
}

// atomPost maps an Atom entry. The updated timestamp is passed through
// verbatim and Atom carries no reliable cover image, so that field stays
// empty.
func atomPost(item *gofeed.Item) models.Post {
	return models.Post{
		Title:    strings.TrimSpace(item.Title),
		Subtitle: strings.TrimSpace(item.Description),
		URL:      strings.TrimSpace(item.Link),
		Date:     strings.TrimSpace(item.Updated),
	}
}

// pubDateUTC renders an RSS pubDate as UTC ISO-8601, or empty when the
// source date was absent or unparsable.
func pubDateUTC(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// coverImageStrategies are tried in order; the first non-empty result wins.
var coverImageStrategies = []func(*gofeed.Item) string{
	enclosureURL,
	firstContentImage,
}

func coverImage(item *gofeed.Item) string {
	for _, strategy := range coverImageStrategies {
		if u := strategy(item); u != "" {
			return u
		}
	}
	return ""
}

func enclosureURL(item *gofeed.Item) string {
	if len(item.Enclosures) == 0 {
		return ""
	}
	return strings.TrimSpace(item.Enclosures[0].URL)
}

func firstContentImage(item *gofeed.Item) string {
	if strings.TrimSpace(item.Content) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(item.Content))
	if err != nil {
		return ""
	}

	src, _ := doc.Find("img[src]").First().Attr("src")
	return strings.TrimSpace(src)
}

// ArchiveParser handles the Substack-style JSON archive API: a bare array of
// post objects.
type ArchiveParser struct {
	limit     int
	siteURL   string
	siteTitle string
}

func NewArchiveParser(limit int, siteURL string, siteTitle string) *ArchiveParser {
	return &ArchiveParser{
		limit:     limit,
		siteURL:   strings.TrimRight(siteURL, "/"),
		siteTitle: siteTitle,
	}
}

type archiveItem struct {
	Title        string `json:"title"`
	Subtitle     string `json:"subtitle"`
	Description  string `json:"description"`
	CanonicalURL string `json:"canonical_url"`
	Slug         string `json:"slug"`
	PostDate     string `json:"post_date"`
	CoverImage   string `json:"cover_image"`
}

func (p *ArchiveParser) Parse(data []byte, sourceURL string) (*models.Snapshot, error) {
	var items []archiveItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, &ParseError{Format: FormatJSON, Err: err}
	}

	if len(items) > p.limit {
		items = items[:p.limit]
	}

	return &models.Snapshot{
		Source:    sourceURL,
		FeedTitle: p.siteTitle,
		FeedURL:   p.siteURL,
		Posts: lo.Map(items, func(item archiveItem, _ int) models.Post {
			return p.archivePost(item)
		}),
	}, nil
}

func (p *ArchiveParser) archivePost(item archiveItem) models.Post {
	title := strings.TrimSpace(item.Title)
	if title == "" {
		title = untitledPost
	}

	return models.Post{
		Title:      title,
		Subtitle:   firstNonEmpty(item.Subtitle, item.Description),
		URL:        firstNonEmpty(item.CanonicalURL, p.slugURL(item.Slug)),
		Date:       strings.TrimSpace(item.PostDate),
		CoverImage: strings.TrimSpace(item.CoverImage),
	}
}

func (p *ArchiveParser) slugURL(slug string) string {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return ""
	}
	return fmt.Sprintf("%s/p/%s", p.siteURL, slug)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
