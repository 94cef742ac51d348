package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Valentin39220/bini-crm/internal/prospects/domain"
)

type fakeRepo struct {
	mu      sync.Mutex
	initial []domain.Prospect
	saved   [][]domain.Prospect
	saveErr error
}

func (f *fakeRepo) Hydrate(context.Context) ([]domain.Prospect, error) {
	return f.initial, nil
}

func (f *fakeRepo) Save(_ context.Context, prospects []domain.Prospect) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, prospects)
	return nil
}

func (f *fakeRepo) last() []domain.Prospect {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.saved) == 0 {
		return nil
	}
	return f.saved[len(f.saved)-1]
}

var fixedNow = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

func sequentialIDs(ids ...string) func() string {
	i := 0
	return func() string {
		id := ids[i%len(ids)]
		i++
		return id
	}
}

func setupService(t *testing.T, initial []domain.Prospect, opts ...Option) (*ProspectService, *fakeRepo) {
	repo := &fakeRepo{initial: initial}
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	svc, err := Open(context.Background(), repo, opts...)
	require.NoError(t, err)
	return svc, repo
}

func seeded() []domain.Prospect {
	return []domain.Prospect{
		{
			ID:           "1",
			Company:      "Tech Solutions",
			Contact:      "Marie Martin",
			Status:       domain.StatusQualifying,
			Temperature:  domain.TemperatureHot,
			CreatedAt:    domain.MustParseDate("2024-01-15"),
			NextFollowUp: domain.MustParseDate("2024-01-20"),
			Notes:        []domain.Note{{Date: domain.MustParseDate("2024-01-15"), Text: "Premier contact positif"}},
		},
		{
			ID:          "2",
			Company:     "Green Energy",
			Contact:     "Pierre Dubois",
			Status:      domain.StatusProposal,
			Temperature: domain.TemperatureWarm,
			CreatedAt:   domain.MustParseDate("2024-01-10"),
			Notes:       []domain.Note{},
		},
	}
}

func TestProspectService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("applies defaults", func(t *testing.T) {
		svc, repo := setupService(t, nil)

		p, err := svc.Create(ctx, domain.Draft{Company: "Acme", Contact: "Jo"})
		require.NoError(t, err)

		assert.NotEmpty(t, p.ID)
		assert.Equal(t, domain.StatusNew, p.Status)
		assert.Equal(t, domain.TemperatureWarm, p.Temperature)
		assert.Equal(t, domain.Amount(0), p.EstimatedValue)
		assert.NotNil(t, p.Notes)
		assert.Empty(t, p.Notes)
		assert.Equal(t, "2024-06-01", p.CreatedAt.String())

		require.Len(t, repo.last(), 1)
		assert.Equal(t, p.ID, repo.last()[0].ID)
	})

	t.Run("appends in insertion order", func(t *testing.T) {
		svc, _ := setupService(t, seeded())

		p, err := svc.Create(ctx, domain.Draft{Company: "Acme", Contact: "Jo"})
		require.NoError(t, err)

		list := svc.List()
		require.Len(t, list, 3)
		assert.Equal(t, []string{"1", "2", p.ID}, []string{list[0].ID, list[1].ID, list[2].ID})
	})

	t.Run("ignores draft notes", func(t *testing.T) {
		svc, _ := setupService(t, nil)
		p, err := svc.Create(ctx, domain.Draft{Company: "Acme", Contact: "Jo", Notes: []domain.Note{{Text: "x"}}})
		require.NoError(t, err)
		assert.Empty(t, p.Notes)
	})

	t.Run("rejects unknown taxonomy ids", func(t *testing.T) {
		svc, repo := setupService(t, nil)
		_, err := svc.Create(ctx, domain.Draft{Company: "Acme", Contact: "Jo", Status: "archived"})
		assert.ErrorIs(t, err, domain.ErrUnknownStatus)
		assert.Empty(t, repo.saved)
	})

	t.Run("never reuses an issued id", func(t *testing.T) {
		svc, _ := setupService(t, seeded(), WithIDGenerator(sequentialIDs("1", "2", "3", "3", "4")))

		a, err := svc.Create(ctx, domain.Draft{Company: "A", Contact: "a"})
		require.NoError(t, err)
		assert.Equal(t, "3", a.ID)

		deleted, err := svc.Delete(ctx, "3")
		require.NoError(t, err)
		require.True(t, deleted)

		b, err := svc.Create(ctx, domain.Draft{Company: "B", Contact: "b"})
		require.NoError(t, err)
		assert.Equal(t, "4", b.ID)
	})

	t.Run("ids are unique across many creates", func(t *testing.T) {
		svc, _ := setupService(t, nil)
		seen := map[string]bool{}
		for i := 0; i < 50; i++ {
			p, err := svc.Create(ctx, domain.Draft{Company: fmt.Sprintf("C%d", i), Contact: "x"})
			require.NoError(t, err)
			assert.False(t, seen[p.ID])
			seen[p.ID] = true
		}
	})
}

func TestProspectService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip keeps id and createdAt", func(t *testing.T) {
		svc, _ := setupService(t, seeded())

		draft := domain.Draft{
			Company:        "Tech Solutions SA",
			Contact:        "Marie Martin",
			Phone:          "01 02 03 04 05",
			Status:         domain.StatusNegotiation,
			Temperature:    domain.TemperatureCold,
			Source:         "Salon",
			NextFollowUp:   domain.MustParseDate("2024-07-01"),
			EstimatedValue: domain.AmountFromUnits(20000),
		}
		p, err := svc.Update(ctx, "1", draft)
		require.NoError(t, err)
		require.NotNil(t, p)

		assert.Equal(t, "1", p.ID)
		assert.Equal(t, "2024-01-15", p.CreatedAt.String())
		assert.Equal(t, "Tech Solutions SA", p.Company)
		assert.Equal(t, domain.StatusNegotiation, p.Status)
		assert.Equal(t, domain.TemperatureCold, p.Temperature)
		assert.Equal(t, domain.AmountFromUnits(20000), p.EstimatedValue)
		assert.Len(t, p.Notes, 1, "nil draft notes keep the timeline")

		assert.Equal(t, *p, *svc.Get("1"))
	})

	t.Run("draft of a record is an identity update", func(t *testing.T) {
		svc, _ := setupService(t, seeded())
		before := svc.Get("2")

		p, err := svc.Update(ctx, "2", domain.DraftOf(*before))
		require.NoError(t, err)
		assert.Equal(t, *before, *p)
	})

	t.Run("status and temperature are required", func(t *testing.T) {
		svc, repo := setupService(t, seeded())

		_, err := svc.Update(ctx, "2", domain.Draft{Company: "Green Energy", Contact: "Pierre Dubois", Temperature: domain.TemperatureWarm})
		assert.ErrorIs(t, err, domain.ErrUnknownStatus)

		_, err = svc.Update(ctx, "2", domain.Draft{Company: "Green Energy", Contact: "Pierre Dubois", Status: domain.StatusProposal})
		assert.ErrorIs(t, err, domain.ErrUnknownTemperature)

		assert.Empty(t, repo.saved)
		assert.Equal(t, domain.StatusProposal, svc.Get("2").Status)
	})

	t.Run("draft notes replace the timeline", func(t *testing.T) {
		svc, _ := setupService(t, seeded())
		p, err := svc.Update(ctx, "1", domain.Draft{
			Company:     "T",
			Contact:     "M",
			Status:      domain.StatusNew,
			Temperature: domain.TemperatureCold,
			Notes:       []domain.Note{},
		})
		require.NoError(t, err)
		assert.Empty(t, p.Notes)
	})

	t.Run("unknown id is absent", func(t *testing.T) {
		svc, repo := setupService(t, seeded())
		p, err := svc.Update(ctx, "missing", domain.Draft{
			Company:     "x",
			Contact:     "y",
			Status:      domain.StatusNew,
			Temperature: domain.TemperatureWarm,
		})
		require.NoError(t, err)
		assert.Nil(t, p)
		assert.Empty(t, repo.saved)
	})
}

func TestProspectService_SetStatus(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t, seeded())

	p, err := svc.SetStatus(ctx, "1", domain.StatusWon)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusWon, p.Status)

	p, err = svc.SetStatus(ctx, "1", domain.StatusNew)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNew, p.Status, "any status may follow any other")

	_, err = svc.SetStatus(ctx, "1", "archived")
	assert.ErrorIs(t, err, domain.ErrUnknownStatus)

	p, err = svc.SetStatus(ctx, "missing", domain.StatusWon)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestProspectService_AddNote(t *testing.T) {
	ctx := context.Background()

	t.Run("appends a note dated today", func(t *testing.T) {
		svc, _ := setupService(t, seeded())
		before := svc.Get("1").Notes

		p, err := svc.AddNote(ctx, "1", "Relance par mail")
		require.NoError(t, err)
		require.Len(t, p.Notes, len(before)+1)
		assert.Equal(t, before, p.Notes[:len(before)])
		assert.Equal(t, domain.Note{Date: domain.MustParseDate("2024-06-01"), Text: "Relance par mail"}, p.Notes[len(before)])
	})

	t.Run("blank text is a no-op", func(t *testing.T) {
		svc, repo := setupService(t, seeded())
		p, err := svc.AddNote(ctx, "1", "   ")
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Len(t, p.Notes, 1)
		assert.Empty(t, repo.saved)
	})

	t.Run("unknown id", func(t *testing.T) {
		svc, _ := setupService(t, seeded())
		p, err := svc.AddNote(ctx, "missing", "hello")
		require.NoError(t, err)
		assert.Nil(t, p)
	})
}

func TestProspectService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("removes and persists", func(t *testing.T) {
		svc, repo := setupService(t, seeded())

		ok, err := svc.Delete(ctx, "1")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Nil(t, svc.Get("1"))
		require.Len(t, repo.last(), 1)
		assert.Equal(t, "2", repo.last()[0].ID)
	})

	t.Run("deleting the last record persists an empty collection", func(t *testing.T) {
		svc, repo := setupService(t, seeded()[:1])
		ok, err := svc.Delete(ctx, "1")
		require.NoError(t, err)
		assert.True(t, ok)
		require.Len(t, repo.saved, 1)
		assert.Empty(t, repo.last())
	})

	t.Run("unknown id", func(t *testing.T) {
		svc, _ := setupService(t, seeded())
		ok, err := svc.Delete(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestProspectService_Selection(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t, seeded())

	assert.Nil(t, svc.Selected())
	assert.Nil(t, svc.Select("missing"))

	require.NotNil(t, svc.Select("1"))

	_, err := svc.AddNote(ctx, "1", "suivi")
	require.NoError(t, err)
	assert.Len(t, svc.Selected().Notes, 2, "selection reflects the latest mutation")

	_, err = svc.Delete(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, "1", svc.Selected().ID)

	_, err = svc.Delete(ctx, "1")
	require.NoError(t, err)
	assert.Nil(t, svc.Selected())

	svc.Select("missing")
	assert.Nil(t, svc.Selected())
}

func TestProspectService_SaveFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	svc, repo := setupService(t, seeded())
	repo.saveErr = assert.AnError

	_, err := svc.Create(ctx, domain.Draft{Company: "Acme", Contact: "Jo"})
	assert.ErrorIs(t, err, assert.AnError)

	_, err = svc.SetStatus(ctx, "1", domain.StatusLost)
	assert.ErrorIs(t, err, assert.AnError)

	ok, err := svc.Delete(ctx, "1")
	assert.ErrorIs(t, err, assert.AnError)
	assert.False(t, ok)

	list := svc.List()
	require.Len(t, list, 2)
	assert.Equal(t, domain.StatusQualifying, list[0].Status)
}

func TestProspectService_ReturnsCopies(t *testing.T) {
	svc, _ := setupService(t, seeded())

	p := svc.Get("1")
	p.Company = "changed"
	p.Notes[0].Text = "changed"

	list := svc.List()
	list[1].Company = "changed"

	fresh := svc.Get("1")
	assert.Equal(t, "Tech Solutions", fresh.Company)
	assert.Equal(t, "Premier contact positif", fresh.Notes[0].Text)
	assert.Equal(t, "Green Energy", svc.Get("2").Company)
}

func TestProspectService_ConcurrentMutations(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Create(ctx, domain.Draft{Company: fmt.Sprintf("C%d", i), Contact: "x"})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Len(t, svc.List(), 20)
}

func TestProspectService_Today(t *testing.T) {
	svc, _ := setupService(t, nil)
	assert.Equal(t, "2024-06-01", svc.Today().String())
}
