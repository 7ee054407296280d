package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"DiamondQuest/internal/model"
)

// RobloxFetcher implements IdentityFetcher against the public Roblox users
// and thumbnails APIs.
type RobloxFetcher struct {
	UsersURL      string
	ThumbnailsURL string
	Client        *http.Client
}

// NewRobloxFetcher creates a fetcher with optional proxy support.
func NewRobloxFetcher(usersURL, thumbnailsURL, proxyURL string) *RobloxFetcher {
	return &RobloxFetcher{
		UsersURL:      usersURL,
		ThumbnailsURL: thumbnailsURL,
		Client:        newHTTPClient(proxyURL, 15*time.Second),
	}
}

func (f *RobloxFetcher) Name() string { return "roblox" }

type robloxUser struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

func (f *RobloxFetcher) SearchUsers(ctx context.Context, keyword string) ([]model.Identity, error) {
	endpoint := fmt.Sprintf("%s/v1/users/search?keyword=%s", f.UsersURL, url.QueryEscape(keyword))
	var result struct {
		Data []robloxUser `json:"data"`
	}
	if err := f.getJSON(ctx, endpoint, &result); err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}

	users := make([]model.Identity, 0, len(result.Data))
	for _, u := range result.Data {
		display := u.DisplayName
		if display == "" {
			display = u.Name
		}
		users = append(users, model.Identity{
			ID:          strconv.FormatInt(u.ID, 10),
			Username:    u.Name,
			DisplayName: display,
			Verified:    true,
		})
	}
	return users, nil
}

func (f *RobloxFetcher) AvatarURL(ctx context.Context, userID string) (string, error) {
	endpoint := fmt.Sprintf("%s/v1/users/avatar-headshot?userIds=%s&size=420x420&format=Png",
		f.ThumbnailsURL, url.QueryEscape(userID))
	var result struct {
		Data []struct {
			ImageURL string `json:"imageUrl"`
		} `json:"data"`
	}
	if err := f.getJSON(ctx, endpoint, &result); err != nil {
		return "", fmt.Errorf("avatar headshot: %w", err)
	}
	if len(result.Data) == 0 {
		return "", nil
	}
	return result.Data[0].ImageURL, nil
}

func (f *RobloxFetcher) getJSON(ctx context.Context, endpoint string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := f.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("status %d, body: %s", resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
