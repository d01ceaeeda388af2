package gwallet

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDirectory uzak cüzdan dizininin bellek içi taklididir. Şablon ve nesne
// koleksiyonlarını tutar, mükerrer oluşturmada 409 döner.
type fakeDirectory struct {
	mu      sync.Mutex
	classes map[string]*Class
	objects map[string]*Object

	classCreates  atomic.Int64
	objectCreates atomic.Int64
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		classes: make(map[string]*Class),
		objects: make(map[string]*Object),
	}
}

func (d *fakeDirectory) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /loyaltyClass", func(w http.ResponseWriter, r *http.Request) {
		var class Class
		if err := json.NewDecoder(r.Body).Decode(&class); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		d.mu.Lock()
		defer d.mu.Unlock()
		if _, ok := d.classes[class.ID]; ok {
			w.WriteHeader(http.StatusConflict)
			return
		}
		d.classCreates.Add(1)
		d.classes[class.ID] = &class
		json.NewEncoder(w).Encode(&class)
	})

	mux.HandleFunc("GET /loyaltyClass/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/loyaltyClass/")
		d.mu.Lock()
		defer d.mu.Unlock()
		class, ok := d.classes[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(class)
	})

	mux.HandleFunc("POST /loyaltyObject", func(w http.ResponseWriter, r *http.Request) {
		var obj Object
		if err := json.NewDecoder(r.Body).Decode(&obj); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		d.mu.Lock()
		defer d.mu.Unlock()
		if _, ok := d.objects[obj.ID]; ok {
			w.WriteHeader(http.StatusConflict)
			return
		}
		d.objectCreates.Add(1)
		d.objects[obj.ID] = &obj
		json.NewEncoder(w).Encode(&obj)
	})

	mux.HandleFunc("GET /loyaltyObject/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/loyaltyObject/")
		d.mu.Lock()
		defer d.mu.Unlock()
		obj, ok := d.objects[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(obj)
	})

	mux.HandleFunc("PATCH /loyaltyObject/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/loyaltyObject/")
		var patch struct {
			ValidTimeInterval *TimeInterval `json:"validTimeInterval"`
		}
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		d.mu.Lock()
		defer d.mu.Unlock()
		obj, ok := d.objects[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		obj.ValidTimeInterval = patch.ValidTimeInterval
		json.NewEncoder(w).Encode(obj)
	})

	return mux
}

func newTestClient(t *testing.T, dir *fakeDirectory) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(dir.handler())
	t.Cleanup(server.Close)

	client := NewClient(Options{
		BaseURL:  server.URL,
		IssuerID: "3388000000012345678",
		SaveBase: "https://pay.google.com/gp/v/save",
		SignerID: "issuer@example.iam.gserviceaccount.com",
		Timeout:  5 * time.Second,
	})
	return client, server
}

func TestEnsureClass_CreatesOnce(t *testing.T) {
	dir := newFakeDirectory()
	client, _ := newTestClient(t, dir)

	class := &Class{ID: client.ClassID("demo-dernek"), IssuerName: "Demo Derneği", ProgramName: "Üyelik"}

	got, err := client.EnsureClass(context.Background(), class)
	require.NoError(t, err)
	assert.Equal(t, class.ID, got.ID)
	assert.Equal(t, int64(1), dir.classCreates.Load())
}

func TestEnsureClass_ExistingReturnsStoredClass(t *testing.T) {
	dir := newFakeDirectory()
	client, _ := newTestClient(t, dir)

	class := &Class{ID: client.ClassID("demo-dernek"), IssuerName: "Demo Derneği", ProgramName: "Üyelik"}
	_, err := client.EnsureClass(context.Background(), class)
	require.NoError(t, err)

	// İkinci çağrı 409 yolundan geçer ve mevcut şablonu döndürür.
	second := &Class{ID: class.ID, IssuerName: "Başka İsim", ProgramName: "Üyelik"}
	got, err := client.EnsureClass(context.Background(), second)
	require.NoError(t, err)
	assert.Equal(t, "Demo Derneği", got.IssuerName)
	assert.Equal(t, int64(1), dir.classCreates.Load())
}

func TestEnsureClass_ConcurrentCallsCreateSingleClass(t *testing.T) {
	dir := newFakeDirectory()
	client, _ := newTestClient(t, dir)

	class := &Class{ID: client.ClassID("demo-dernek"), IssuerName: "Demo Derneği", ProgramName: "Üyelik"}

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = client.EnsureClass(context.Background(), class)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, int64(1), dir.classCreates.Load())
}

func TestSaveObject_CreatesWhenMissing(t *testing.T) {
	dir := newFakeDirectory()
	client, _ := newTestClient(t, dir)

	obj := &Object{
		ID:         client.ObjectID("demo-dernek", 42),
		ClassID:    client.ClassID("demo-dernek"),
		State:      ObjectStateActive,
		HolderName: "Ayşe Yılmaz",
		ValidTimeInterval: &TimeInterval{
			Start: DateTime{Date: "2026-01-01T00:00:00Z"},
			End:   DateTime{Date: "2026-12-31T00:00:00Z"},
		},
	}

	got, err := client.SaveObject(context.Background(), obj)
	require.NoError(t, err)
	assert.Equal(t, obj.ID, got.ID)
	assert.Equal(t, int64(1), dir.objectCreates.Load())
}

func TestSaveObject_ExistingPatchesValidityOnly(t *testing.T) {
	dir := newFakeDirectory()
	client, _ := newTestClient(t, dir)

	obj := &Object{
		ID:         client.ObjectID("demo-dernek", 42),
		ClassID:    client.ClassID("demo-dernek"),
		State:      ObjectStateActive,
		HolderName: "Ayşe Yılmaz",
		ValidTimeInterval: &TimeInterval{
			Start: DateTime{Date: "2026-01-01T00:00:00Z"},
			End:   DateTime{Date: "2026-12-31T00:00:00Z"},
		},
	}
	_, err := client.SaveObject(context.Background(), obj)
	require.NoError(t, err)

	// Aynı nesne uzatılan geçerlilikle tekrar kaydedilir: yeni nesne
	// yaratılmaz, yalnızca aralık güncellenir.
	renewed := *obj
	renewed.HolderName = "Değişmemeli"
	renewed.ValidTimeInterval = &TimeInterval{
		Start: DateTime{Date: "2026-01-01T00:00:00Z"},
		End:   DateTime{Date: "2027-12-31T00:00:00Z"},
	}
	got, err := client.SaveObject(context.Background(), &renewed)
	require.NoError(t, err)

	assert.Equal(t, int64(1), dir.objectCreates.Load())
	assert.Equal(t, "2027-12-31T00:00:00Z", got.ValidTimeInterval.End.Date)
	assert.Equal(t, "Ayşe Yılmaz", got.HolderName)
}

func TestSaveObject_ConcurrentCallsPersistSingleObject(t *testing.T) {
	dir := newFakeDirectory()
	client, _ := newTestClient(t, dir)

	obj := &Object{
		ID:      client.ObjectID("demo-dernek", 7),
		ClassID: client.ClassID("demo-dernek"),
		State:   ObjectStateActive,
	}

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = client.SaveObject(context.Background(), obj)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, int64(1), dir.objectCreates.Load())
	assert.Len(t, dir.objects, 1)
}

func TestClient_TimeoutReturnsExternalServiceError(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer slow.Close()

	client := NewClient(Options{BaseURL: slow.URL, IssuerID: "1", Timeout: 50 * time.Millisecond})

	_, err := client.EnsureClass(context.Background(), &Class{ID: "1.demo"})
	require.Error(t, err)
	var extErr *ExternalServiceError
	assert.ErrorAs(t, err, &extErr)
}

func TestClient_ServerErrorReturnsExternalServiceError(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer broken.Close()

	client := NewClient(Options{BaseURL: broken.URL, IssuerID: "1", Timeout: time.Second})

	_, err := client.EnsureClass(context.Background(), &Class{ID: "1.demo"})
	var extErr *ExternalServiceError
	require.ErrorAs(t, err, &extErr)
	assert.Equal(t, http.StatusInternalServerError, extErr.Status)
}

func TestSaveLink_ProducesVerifiableJWT(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	client := NewClient(Options{
		IssuerID: "3388000000012345678",
		SaveBase: "https://pay.google.com/gp/v/save",
		SignerID: "issuer@example.iam.gserviceaccount.com",
		Key:      key,
		Origins:  []string{"https://uyekart.link"},
	})

	obj := &Object{ID: client.ObjectID("demo-dernek", 42), ClassID: client.ClassID("demo-dernek")}
	link, err := client.SaveLink(obj)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(link, "https://pay.google.com/gp/v/save/"))

	raw := strings.TrimPrefix(link, "https://pay.google.com/gp/v/save/")
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		return &key.PublicKey, nil
	}, jwt.WithValidMethods([]string{"RS256"}))
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	assert.Equal(t, "issuer@example.iam.gserviceaccount.com", claims["iss"])
	assert.Equal(t, "google", claims["aud"])
	assert.Equal(t, "savetowallet", claims["typ"])

	payload, ok := claims["payload"].(map[string]interface{})
	require.True(t, ok)
	objects, ok := payload["loyaltyObjects"].([]interface{})
	require.True(t, ok)
	require.Len(t, objects, 1)
	first := objects[0].(map[string]interface{})
	assert.Equal(t, obj.ID, first["id"])
	assert.Equal(t, obj.ClassID, first["classId"])
}

func TestSaveLink_MissingKeyFails(t *testing.T) {
	client := NewClient(Options{IssuerID: "1", SaveBase: "https://example.com/save"})
	_, err := client.SaveLink(&Object{ID: "1.demo-m1", ClassID: "1.demo"})
	var extErr *ExternalServiceError
	assert.ErrorAs(t, err, &extErr)
}
