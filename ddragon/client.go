package ddragon

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"

	"github.com/oogwaybot/oogway"
)

// Client talks to the Riot Data Dragon static-data CDN.
type Client struct {
	// BaseURL can be overridden for tests.
	BaseURL string

	c *http.Client
}

func NewClient() *Client {
	return &Client{
		BaseURL: "https://ddragon.leagueoflegends.com",
		c:       http.DefaultClient,
	}
}

// Version returns the latest published Data Dragon version.
func (c *Client) Version(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.BaseURL+"/api/versions.json", nil)
	if err != nil {
		return "", err
	}

	resp, err := c.c.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", oogway.Errorf(oogway.EUNAVAILABLE, "Data Dragon returned status %d.", resp.StatusCode)
	}

	versions := make([]string, 0)
	if err := json.NewDecoder(resp.Body).Decode(&versions); err != nil {
		return "", err
	}

	if len(versions) == 0 {
		return "", oogway.Errorf(oogway.EUNAVAILABLE, "Data Dragon published no versions.")
	}

	return versions[0], nil
}

// FetchChampions returns the current champion list, sorted by id.
// It implements oogway.ChampionSource.
func (c *Client) FetchChampions(ctx context.Context) ([]oogway.Champion, error) {
	version, err := c.Version(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "GET", c.BaseURL+"/cdn/"+version+"/data/en_US/champion.json", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, oogway.Errorf(oogway.EUNAVAILABLE, "Data Dragon returned status %d.", resp.StatusCode)
	}

	var payload struct {
		Data map[string]struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	champions := make([]oogway.Champion, 0, len(payload.Data))
	for _, v := range payload.Data {
		champions = append(champions, oogway.Champion{ID: v.ID, Name: v.Name})
	}
	sort.Slice(champions, func(i, j int) bool { return champions[i].ID < champions[j].ID })

	return champions, nil
}
