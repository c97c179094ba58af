package study_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/studyflash/studyflash/internal/models"
	"github.com/studyflash/studyflash/internal/study"
)

func TestApplyReview_Easy(t *testing.T) {
	card := models.Flashcard{
		EaseFactor:   2.5,
		IntervalDays: 1,
		DueAt:        time.Now(),
	}

	updated := study.ApplyReview(card, 3)

	assert.Greater(t, updated.IntervalDays, card.IntervalDays, "interval should increase on an easy review")
	assert.GreaterOrEqual(t, updated.EaseFactor, card.EaseFactor, "ease factor should increase or stay same")
	assert.Equal(t, 1, updated.TimesReviewed)
	assert.Equal(t, 1, updated.TimesCorrect)
	assert.True(t, updated.DueAt.After(time.Now()), "due date should be in the future")
}

func TestApplyReview_Again(t *testing.T) {
	card := models.Flashcard{
		EaseFactor:    2.5,
		IntervalDays:  10,
		TimesCorrect:  4,
		DueAt:         time.Now(),
	}

	updated := study.ApplyReview(card, 0)

	assert.Equal(t, 1, updated.IntervalDays, "interval should reset to 1 for 'again'")
	assert.Less(t, updated.EaseFactor, card.EaseFactor, "ease factor should decrease")
	assert.Equal(t, 1, updated.TimesReviewed)
	assert.Equal(t, 0, updated.TimesCorrect, "correct streak should reset")
}

func TestApplyReview_EaseFloor(t *testing.T) {
	card := models.Flashcard{
		EaseFactor:   1.3,
		IntervalDays: 2,
	}

	updated := study.ApplyReview(card, 0)

	assert.Equal(t, 1.3, updated.EaseFactor, "ease factor should never drop below 1.3")
}

func TestApplyReview_FirstGoodReviewLadder(t *testing.T) {
	card := models.Flashcard{EaseFactor: 2.5, IntervalDays: 0}

	first := study.ApplyReview(card, 2)
	assert.Equal(t, 1, first.IntervalDays)

	second := study.ApplyReview(first, 2)
	assert.Equal(t, 6, second.IntervalDays)

	third := study.ApplyReview(second, 2)
	assert.Greater(t, third.IntervalDays, 6)
}
