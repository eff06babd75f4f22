package bot

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const clientsCSV = `COMPANY NAME,BRANCH/LOCATION,STATE,REGION,WAN/INTERNET CLIENT,BANDWIDTH SUBSCRIPTION (Mbps),CUSTOMER STATUS,CLIENT
Acme <Ltd>,Ikeja,Lagos,South West,WAN,100,Active,Corporate
Beta,Wuse,FCT,North Central,Internet,50,Disconnected,Retail
Gamma,Ibadan,Oyo,South West,WAN,N/A,Active,Retail
`

type fakeAPI struct {
	fileURL   string
	messages  []tgbotapi.MessageConfig
	documents []tgbotapi.DocumentConfig
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	switch m := c.(type) {
	case tgbotapi.MessageConfig:
		f.messages = append(f.messages, m)
	case tgbotapi.DocumentConfig:
		f.documents = append(f.documents, m)
	default:
		return tgbotapi.Message{}, errors.New("unexpected chattable")
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) GetFileDirectURL(fileID string) (string, error) {
	if f.fileURL == "" {
		return "", errors.New("no file")
	}
	return f.fileURL + "/" + fileID, nil
}

func (f *fakeAPI) documentNames() []string {
	var names []string
	for _, d := range f.documents {
		names = append(names, d.File.(tgbotapi.FileBytes).Name)
	}
	return names
}

func fileServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func documentUpdate(name string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Chat:     &tgbotapi.Chat{ID: 42},
		Document: &tgbotapi.Document{FileID: "file-1", FileName: name},
	}}
}

func TestStartMessage(t *testing.T) {
	api := &fakeAPI{}
	h := NewHandler(api, nil, "Bandwidth Insights", 5)

	h.HandleUpdate(context.Background(), tgbotapi.Update{Message: &tgbotapi.Message{
		Chat: &tgbotapi.Chat{ID: 42},
		Text: "/start",
	}})

	require.Len(t, api.messages, 1)
	assert.Equal(t, int64(42), api.messages[0].ChatID)
	assert.Contains(t, api.messages[0].Text, "BANDWIDTH SUBSCRIPTION (Mbps)")
}

func TestIgnoresEmptyUpdate(t *testing.T) {
	api := &fakeAPI{}
	NewHandler(api, nil, "Bandwidth Insights", 5).HandleUpdate(context.Background(), tgbotapi.Update{})
	assert.Empty(t, api.messages)
}

func TestDocument(t *testing.T) {
	api := &fakeAPI{fileURL: fileServer(t, clientsCSV).URL}
	h := NewHandler(api, nil, "Bandwidth Insights", 5)

	h.HandleUpdate(context.Background(), documentUpdate("clients.csv"))

	require.Len(t, api.messages, 2)
	summary := api.messages[0]
	assert.Equal(t, tgbotapi.ModeHTML, summary.ParseMode)
	assert.Contains(t, summary.Text, "150 Mbps")
	assert.Contains(t, api.messages[1].Text, "N/A")

	names := api.documentNames()
	require.Len(t, names, 3)
	assert.True(t, strings.HasSuffix(names[0], ".txt"))
	assert.True(t, strings.HasSuffix(names[1], ".pdf"))
	assert.True(t, strings.HasSuffix(names[2], ".csv"))

	csv := string(api.documents[2].File.(tgbotapi.FileBytes).Bytes)
	assert.Contains(t, csv, "Acme <Ltd>")
}

func TestDocumentErrors(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		body     string
		noURL    bool
		want     string
	}{
		{"Unsupported type", "clients.pdf", clientsCSV, false, "is not a CSV file"},
		{"Missing column", "clients.csv", "COMPANY NAME,STATE\nAcme,Lagos\n", false, `"BRANCH/LOCATION"`},
		{"Empty file", "clients.csv", "", false, "The file is empty."},
		{"Download error", "clients.csv", clientsCSV, true, "Could not download"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{}
			if !tt.noURL {
				api.fileURL = fileServer(t, tt.body).URL
			}
			NewHandler(api, nil, "Bandwidth Insights", 5).HandleUpdate(context.Background(), documentUpdate(tt.fileName))

			require.Len(t, api.messages, 1)
			assert.Contains(t, api.messages[0].Text, tt.want)
			assert.Empty(t, api.documents)
		})
	}
}
