// Package mocks provides mock expectation helpers for common testing patterns
package mocks

import (
	"time"

	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/conquest-editor/internal/knowledge"
	"github.com/KirkDiggler/conquest-editor/internal/orchestrators/catalog"
	catalogmock "github.com/KirkDiggler/conquest-editor/internal/orchestrators/catalog/mock"
	"github.com/KirkDiggler/conquest-editor/internal/orchestrators/session"
	sessionmock "github.com/KirkDiggler/conquest-editor/internal/orchestrators/session/mock"
)

// SnapshotKey is the fingerprint reported by ExpectKnowledgeLoad
const SnapshotKey = "00000000deadbeef"

// EmptyBase returns a knowledge base without any tables, enough for code
// that only passes the base along
func EmptyBase() *knowledge.Base {
	base, err := knowledge.NewBase(&knowledge.Tables{}, nil)
	if err != nil {
		panic(err)
	}
	return base
}

// ExpectKnowledgeLoad sets up a catalog load of dataDir returning base
func ExpectKnowledgeLoad(mockCatalog *catalogmock.MockService, dataDir string, base *knowledge.Base, fromSnapshot bool) *gomock.Call {
	return mockCatalog.EXPECT().
		Load(gomock.Any(), &catalog.LoadInput{DataDir: dataDir}).
		Return(&catalog.LoadOutput{
			Base:         base,
			Key:          SnapshotKey,
			FromSnapshot: fromSnapshot,
			Duration:     25 * time.Millisecond,
		}, nil)
}

// ExpectSessionOpen sets up opening the campaign with base and returns the
// session handed out. Its wallet starts with the given currencies.
func ExpectSessionOpen(mockSessions *sessionmock.MockService, base *knowledge.Base, mp, ap float64) *session.Session {
	sess := &session.Session{
		Base:   base,
		Wallet: &session.Wallet{MP: mp, AP: ap},
	}
	mockSessions.EXPECT().
		Open(gomock.Any(), &session.OpenInput{Base: base}).
		Return(&session.OpenOutput{Session: sess}, nil)
	return sess
}

// ExpectSessionSave sets up storing sess with the given edit counts
func ExpectSessionSave(mockSessions *sessionmock.MockService, sess *session.Session, sceneEdits, statusEdits int) *gomock.Call {
	return mockSessions.EXPECT().
		Save(gomock.Any(), &session.SaveInput{Session: sess}).
		Return(&session.SaveOutput{SceneEdits: sceneEdits, StatusEdits: statusEdits}, nil)
}
