package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"golang.org/x/text/language"
)

func TestTagFromEnv(t *testing.T) {
	assert.Equal(t, language.English, tagFromEnv(""))
	assert.Equal(t, language.English, tagFromEnv("not-a-locale!"))
	assert.Equal(t, language.German, tagFromEnv("de"))
	assert.Equal(t, language.MustParse("hi-IN"), tagFromEnv("hi-IN"))
}

func TestEnvironment_SetTagNotifiesSubscribers(t *testing.T) {
	env := New(language.English)

	var got []language.Tag
	env.Subscribe(func(tag language.Tag) { got = append(got, tag) })

	env.SetTag(language.German)
	env.SetTag(language.French)

	assert.Equal(t, []language.Tag{language.German, language.French}, got)
	assert.Equal(t, language.French, env.Tag())
}
