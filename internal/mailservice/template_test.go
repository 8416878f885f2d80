package mailservice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTemplate(t *testing.T) {
	tp := NewTemplate()

	data := struct {
		Username string
	}{
		Username: "testuser",
	}

	subject, plainBody, htmlBody, err := tp.ParseTemplate("welcome_email.html", data)
	assert.NoError(t, err)

	assert.Contains(t, subject.String(), "testuser")
	assert.Contains(t, plainBody.String(), "testuser")
	assert.Contains(t, htmlBody.String(), "testuser")
}

func TestParseTemplate_MissingTemplate(t *testing.T) {
	tp := NewTemplate()

	_, _, _, err := tp.ParseTemplate("does_not_exist.html", nil)
	assert.Error(t, err)
}
