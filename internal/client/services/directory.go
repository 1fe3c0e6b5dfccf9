package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophprofile/internal/client/client"
	"github.com/dmitrijs2005/gophprofile/internal/client/fallback"
	"github.com/dmitrijs2005/gophprofile/internal/client/models"
	"github.com/dmitrijs2005/gophprofile/internal/logging"
)

// FallbackCountries is offered when the remote country list is unavailable.
var FallbackCountries = []models.CountryEntry{
	{Country: "Sri Lanka"},
	{Country: "United States"},
	{Country: "United Kingdom"},
	{Country: "Canada"},
	{Country: "Australia"},
	{Country: "Germany"},
	{Country: "France"},
	{Country: "Italy"},
	{Country: "Spain"},
}

// FallbackCallingCodes is used when the remote calling-code lookup fails.
var FallbackCallingCodes = map[string]string{
	"Sri Lanka":      "+94",
	"United States":  "+1",
	"United Kingdom": "+44",
	"Canada":         "+1",
	"Australia":      "+61",
	"Germany":        "+49",
	"France":         "+33",
	"Italy":          "+39",
	"Spain":          "+34",
}

// TierBuiltin answers directory lookups from the fallback tables; it follows
// TierRemote in both directory chains.
const TierBuiltin = "builtin"

// DirectoryService serves the country selector of the registration screen.
// Neither method fails: remote problems are answered from the fallback tables.
type DirectoryService interface {
	Countries(ctx context.Context) []models.CountryEntry
	// CallingCode returns "" when the code is unknown.
	CallingCode(ctx context.Context, country string) string
}

type directoryService struct {
	client  client.Client
	log     logging.Logger
	metrics *fallback.Metrics
}

// NewDirectoryService constructs a DirectoryService. metrics may be nil.
func NewDirectoryService(c client.Client, log logging.Logger, metrics *fallback.Metrics) DirectoryService {
	return &directoryService{client: c, log: log, metrics: metrics}
}

func (d *directoryService) Countries(ctx context.Context) []models.CountryEntry {
	chain := fallback.New("countries", d.log, []fallback.Strategy[[]models.CountryEntry]{
		{
			Name: TierRemote,
			Do: func(ctx context.Context) ([]models.CountryEntry, error) {
				resp, err := d.client.CountryList(ctx)
				if err != nil {
					return nil, err
				}
				if !isTrue(resp.Envelope.IsSuccess) || len(resp.Envelope.CountryList) == 0 {
					return nil, errors.New("no country list in reply")
				}
				out := make([]models.CountryEntry, 0, len(resp.Envelope.CountryList))
				for _, c := range resp.Envelope.CountryList {
					out = append(out, models.CountryEntry{Country: c.Country})
				}
				return out, nil
			},
		},
		{
			Name: TierBuiltin,
			Do: func(context.Context) ([]models.CountryEntry, error) {
				out := make([]models.CountryEntry, len(FallbackCountries))
				copy(out, FallbackCountries)
				return out, nil
			},
		},
	}, fallback.WithMetrics[[]models.CountryEntry](d.metrics))

	return chain.Run(ctx).Value
}

func (d *directoryService) CallingCode(ctx context.Context, country string) string {
	if country == "" {
		return ""
	}

	chain := fallback.New("calling-code", d.log.With("country", country), []fallback.Strategy[string]{
		{
			Name: TierRemote,
			Do: func(ctx context.Context) (string, error) {
				resp, err := d.client.CountryCode(ctx, country)
				if err != nil {
					return "", err
				}
				if !isTrue(resp.Envelope.IsSuccess) || resp.Envelope.IDDCode == "" {
					return "", errors.New("no calling code in reply")
				}
				return resp.Envelope.IDDCode, nil
			},
		},
		{
			Name: TierBuiltin,
			Do: func(context.Context) (string, error) {
				return FallbackCallingCodes[country], nil
			},
		},
	}, fallback.WithMetrics[string](d.metrics))

	return chain.Run(ctx).Value
}

func isTrue(b *bool) bool { return b != nil && *b }
