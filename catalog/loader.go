package catalog

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

const (
	steamAppURL     = "https://store.steampowered.com/app/"
	priceNotPresent = "Price not available"
)

// Load reads the catalog file for the given domain. Fashion catalogs are CSV,
// gaming catalogs are the steam JSON export keyed by game id.
func Load(domain Domain, path string) ([]Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	switch domain {
	case Fashion:
		return LoadFashionCSV(f)
	case Gaming:
		return LoadGamesJSON(f)
	default:
		return nil, fmt.Errorf("unknown catalog domain %q", domain)
	}
}

// LoadFashionCSV reads rows with the columns Category, Name, Price, Colors,
// Image and Product Link. Column order is taken from the header row.
func LoadFashionCSV(r io.Reader) ([]Item, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	if _, ok := col["Name"]; !ok {
		return nil, errors.New("csv header has no Name column")
	}

	get := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var items []Item
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}

		name := get(row, "Name")
		if name == "" {
			continue
		}

		product := NewFashionProduct(name, get(row, "Price"), get(row, "Image"), get(row, "Product Link"), FashionAttrs{
			Category: get(row, "Category"),
			Colors:   get(row, "Colors"),
		})

		id := product.ProductLink
		if id == "" {
			id = name
		}

		items = append(items, Item{
			ID:       id,
			Domain:   Fashion,
			Document: FashionDocument(product),
			Product:  product,
		})
	}

	return items, nil
}

type steamGame struct {
	Name                string          `json:"name"`
	DetailedDescription string          `json:"detailed_description"`
	ShortDescription    string          `json:"short_description"`
	PriceOverview       *steamPrice     `json:"price_overview"`
	Genres              []labelOrString `json:"genres"`
	Categories          []labelOrString `json:"categories"`
	Developers          []string        `json:"developers"`
	Publishers          []string        `json:"publishers"`
	ReleaseDate         dateOrString    `json:"release_date"`
	MetacriticScore     json.Number     `json:"metacritic_score"`
	HeaderImage         string          `json:"header_image"`
	Website             string          `json:"website"`
}

type steamPrice struct {
	FinalFormatted string `json:"final_formatted"`
}

// labelOrString decodes either "Action" or {"description": "Action"}.
type labelOrString string

func (l *labelOrString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*l = labelOrString(s)
		return nil
	}

	var obj struct {
		Description string `json:"description"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*l = labelOrString(obj.Description)
	return nil
}

// dateOrString decodes either "1 Jan, 2020" or {"date": "1 Jan, 2020"}.
type dateOrString string

func (d *dateOrString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*d = dateOrString(s)
		return nil
	}

	var obj struct {
		Date string `json:"date"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*d = dateOrString(obj.Date)
	return nil
}

func joinLabels(labels []labelOrString) string {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if l != "" {
			out = append(out, string(l))
		}
	}
	return strings.Join(out, ", ")
}

// LoadGamesJSON reads a steam export: a JSON object keyed by game id. Items
// are returned in ascending id order so index builds are reproducible.
func LoadGamesJSON(r io.Reader) ([]Item, error) {
	var games map[string]steamGame
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&games); err != nil {
		return nil, fmt.Errorf("decode games json: %w", err)
	}

	ids := make([]string, 0, len(games))
	for id := range games {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return lessGameID(ids[i], ids[j]) })

	items := make([]Item, 0, len(games))
	for _, id := range ids {
		g := games[id]
		if strings.TrimSpace(g.Name) == "" {
			continue
		}

		price := priceNotPresent
		if g.PriceOverview != nil && g.PriceOverview.FinalFormatted != "" {
			price = g.PriceOverview.FinalFormatted
		}

		link := g.Website
		if link == "" {
			link = steamAppURL + id
		}

		score := g.MetacriticScore.String()
		if score == "" {
			score = "0"
		}

		description := g.DetailedDescription
		if description == "" {
			description = g.ShortDescription
		}

		product := NewGamingProduct(g.Name, price, g.HeaderImage, link, GamingAttrs{
			Genres:          joinLabels(g.Genres),
			Developers:      strings.Join(g.Developers, ", "),
			Publishers:      strings.Join(g.Publishers, ", "),
			ReleaseDate:     string(g.ReleaseDate),
			MetacriticScore: score,
		})

		items = append(items, Item{
			ID:       id,
			Domain:   Gaming,
			Document: GameDocument(product, joinLabels(g.Categories), description),
			Product:  product,
		})
	}

	return items, nil
}

// numeric ids sort numerically, anything else falls back to string order.
func lessGameID(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		return na < nb
	}
	return a < b
}
