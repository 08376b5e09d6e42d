package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/mhsurvey/internal/database/dbtest"
	"github.com/example/mhsurvey/pkg/models"
)

func TestCatalogRepository(t *testing.T) {
	db := openStore(t, dbtest.NewStore(t, dbtest.SampleFixture()))
	repo := NewCatalogRepository(db)
	ctx := context.Background()

	surveys, err := repo.Surveys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Survey{
		{Year: 2014, Description: "mental health survey for 2014"},
		{Year: 2016, Description: "mental health survey for 2016"},
	}, surveys)

	questions, err := repo.Questions(ctx)
	require.NoError(t, err)
	require.Len(t, questions, 3)

	assert.Equal(t, 2, questions[0].ID)
	assert.Equal(t, []int{2014, 2016}, questions[0].Years)
	assert.Equal(t, 115, questions[2].ID)
	assert.Equal(t, []int{2016}, questions[2].Years)
}

func TestCatalogRepository_Empty(t *testing.T) {
	db := openStore(t, dbtest.NewEmptyStore(t))
	repo := NewCatalogRepository(db)

	surveys, err := repo.Surveys(context.Background())
	require.NoError(t, err)
	assert.Empty(t, surveys)

	questions, err := repo.Questions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, questions)
}
