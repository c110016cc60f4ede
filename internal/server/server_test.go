package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func request(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" && !strings.HasSuffix(path, "/import") {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func create(t *testing.T, s *Server, units string) string {
	t.Helper()
	w := request(t, s, http.MethodPost, "/networks", `{"units":`+units+`}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", w.Code, w.Body.String())
	}
	var resp struct{ ID string }
	decode(t, w, &resp)
	if _, err := uuid.Parse(resp.ID); err != nil {
		t.Fatalf("id %q is not a uuid", resp.ID)
	}
	return resp.ID
}

const andDataset = `[
	{"input":[0.1,0.1],"output":[0.1]},
	{"input":[0.1,0.9],"output":[0.1]},
	{"input":[0.9,0.1],"output":[0.1]},
	{"input":[0.9,0.9],"output":[0.9]}]`

func TestCreateAndSimulate(t *testing.T) {
	s := New()
	id := create(t, s, "[1,3,2]")

	w := request(t, s, http.MethodPost, "/networks/"+id+"/simulate", `{"input":[0.1,0.2]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("simulate status = %d, body %s", w.Code, w.Body.String())
	}
	var resp struct{ Output []float64 }
	decode(t, w, &resp)
	if len(resp.Output) != 1 || resp.Output[0] <= 0 || resp.Output[0] >= 1 {
		t.Errorf("output = %v", resp.Output)
	}

	w = request(t, s, http.MethodPost, "/networks/"+id+"/simulate", `{"input":[0.1]}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("short input status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "doesn't match the number of inputs") {
		t.Errorf("short input body = %s", w.Body.String())
	}
}

func TestCreateInvalid(t *testing.T) {
	s := New()
	for _, body := range []string{`{"units":[1]}`, `{"units":[1,0]}`, `{"units":`, `{}`} {
		w := request(t, s, http.MethodPost, "/networks", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("create %s status = %d, want 400", body, w.Code)
		}
	}
	if s.Len() != 0 {
		t.Errorf("Len = %d after failed creates", s.Len())
	}
}

func TestUnknownHandle(t *testing.T) {
	s := New()
	if w := request(t, s, http.MethodGet, "/networks/not-a-uuid", ""); w.Code != http.StatusBadRequest {
		t.Errorf("bad id status = %d, want 400", w.Code)
	}
	if w := request(t, s, http.MethodGet, "/networks/"+uuid.NewString(), ""); w.Code != http.StatusNotFound {
		t.Errorf("unknown id status = %d, want 404", w.Code)
	}
}

func TestConfigure(t *testing.T) {
	s := New()
	id := create(t, s, "[1,3,2]")

	w := request(t, s, http.MethodPost, "/networks/"+id+"/configure",
		`{"options":[{"name":"learnRate","value":"0.3"},{"name":"algorithm","value":"bbpropm"}]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("configure status = %d, body %s", w.Code, w.Body.String())
	}

	w = request(t, s, http.MethodGet, "/networks/"+id, "")
	if !strings.HasSuffix(w.Body.String(), "} bbpropm") || !strings.Contains(w.Body.String(), "{{0.3 ") {
		t.Errorf("configuration not applied: %s", w.Body.String())
	}

	w = request(t, s, http.MethodPost, "/networks/"+id+"/configure",
		`{"options":[{"name":"momentum","value":"0.5"},{"name":"speed","value":"1"}]}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("unknown option status = %d, want 400", w.Code)
	}
	var resp struct {
		Error   string
		Applied int
	}
	decode(t, w, &resp)
	if !strings.Contains(resp.Error, "'speed'") || resp.Applied != 1 {
		t.Errorf("response = %+v", resp)
	}
}

func TestTrain(t *testing.T) {
	s := New()
	id := create(t, s, "[1,3,2]")

	w := request(t, s, http.MethodPost, "/networks/"+id+"/train",
		`{"dataset":`+andDataset+`,"maxEpochs":100000,"maxError":0.001}`)
	if w.Code != http.StatusOK {
		t.Fatalf("train status = %d, body %s", w.Code, w.Body.String())
	}
	var resp struct{ Epochs int }
	decode(t, w, &resp)
	if resp.Epochs == 0 {
		t.Fatal("training did not converge")
	}

	w = request(t, s, http.MethodPost, "/networks/"+id+"/simulate", `{"input":[0.9,0.9]}`)
	var out struct{ Output []float64 }
	decode(t, w, &out)
	if out.Output[0] < 0.8 {
		t.Errorf("AND(1, 1) = %v, want about 0.9", out.Output[0])
	}
}

func TestTrainBadDataset(t *testing.T) {
	s := New()
	id := create(t, s, "[1,3,2]")

	for _, body := range []string{
		`{"dataset":[],"maxEpochs":10}`,
		`{"dataset":[{"input":[1],"output":[1]}],"maxEpochs":10}`,
		`{"dataset":[{"input":[1,1],"output":[1,1]}],"maxEpochs":10}`,
		`{"dataset":` + andDataset + `,"maxEpochs":-1}`,
	} {
		w := request(t, s, http.MethodPost, "/networks/"+id+"/train", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("train %s status = %d, want 400", body, w.Code)
		}
	}
}

func TestExportImportClone(t *testing.T) {
	s := New()
	id := create(t, s, "[2,3,2]")

	text := request(t, s, http.MethodGet, "/networks/"+id, "").Body.String()

	w := request(t, s, http.MethodPost, "/networks/import", text)
	if w.Code != http.StatusCreated {
		t.Fatalf("import status = %d, body %s", w.Code, w.Body.String())
	}
	var imported struct{ ID string }
	decode(t, w, &imported)
	if got := request(t, s, http.MethodGet, "/networks/"+imported.ID, "").Body.String(); got != text {
		t.Errorf("imported network differs:\n%s\n%s", got, text)
	}

	w = request(t, s, http.MethodPost, "/networks/"+id+"/clone", "")
	if w.Code != http.StatusCreated {
		t.Fatalf("clone status = %d", w.Code)
	}
	var cloned struct{ ID string }
	decode(t, w, &cloned)
	if got := request(t, s, http.MethodGet, "/networks/"+cloned.ID, "").Body.String(); got != text {
		t.Error("cloned network differs")
	}
	if s.Len() != 3 {
		t.Errorf("Len = %d, want 3", s.Len())
	}

	if w := request(t, s, http.MethodPost, "/networks/import", "{1 2"); w.Code != http.StatusBadRequest {
		t.Errorf("malformed import status = %d, want 400", w.Code)
	}
}

func TestDelete(t *testing.T) {
	s := New()
	id := create(t, s, "[1,2]")

	if w := request(t, s, http.MethodDelete, "/networks/"+id, ""); w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", w.Code)
	}
	if w := request(t, s, http.MethodGet, "/networks/"+id, ""); w.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", w.Code)
	}
	if w := request(t, s, http.MethodDelete, "/networks/"+id, ""); w.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", w.Code)
	}
	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0", s.Len())
	}
}

func TestDumpAndTcl(t *testing.T) {
	s := New()
	id := create(t, s, "[1,2,2]")

	w := request(t, s, http.MethodGet, "/networks/"+id+"/dump", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "\t\tW(") {
		t.Errorf("dump status = %d, body %q", w.Code, w.Body.String())
	}

	w = request(t, s, http.MethodGet, "/networks/"+id+"/tcl", "")
	if w.Code != http.StatusOK || !strings.HasPrefix(w.Body.String(), "proc ann input {") {
		t.Errorf("tcl status = %d, body %q", w.Code, w.Body.String())
	}
}

func dial(t *testing.T, ts *httptest.Server, id string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/networks/" + id + "/train/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func TestTrainStream(t *testing.T) {
	s := New()
	ts := httptest.NewServer(s.Router)
	defer ts.Close()
	id := create(t, s, "[1,3,2]")

	conn := dial(t, ts, id)
	defer conn.Close()

	err := conn.WriteJSON(map[string]any{
		"dataset":   json.RawMessage(andDataset),
		"maxEpochs": 6,
		"maxError":  0,
		"every":     2,
	})
	if err != nil {
		t.Fatal(err)
	}

	var epochs []int
	for {
		var ev struct {
			Epoch    int
			MaxError float64
			Done     bool
			Epochs   int
			Error    string
		}
		if err := conn.ReadJSON(&ev); err != nil {
			t.Fatalf("read: %v", err)
		}
		if ev.Error != "" {
			t.Fatalf("error event: %s", ev.Error)
		}
		if ev.Done {
			if ev.Epochs != 0 {
				t.Errorf("done epochs = %d, want 0", ev.Epochs)
			}
			break
		}
		if ev.MaxError <= 0 {
			t.Errorf("epoch %d maxError = %v", ev.Epoch, ev.MaxError)
		}
		epochs = append(epochs, ev.Epoch)
	}

	if len(epochs) != 3 || epochs[0] != 2 || epochs[2] != 6 {
		t.Errorf("progress epochs = %v, want [2 4 6]", epochs)
	}
}

func TestTrainStreamBadDataset(t *testing.T) {
	s := New()
	ts := httptest.NewServer(s.Router)
	defer ts.Close()
	id := create(t, s, "[1,3,2]")

	conn := dial(t, ts, id)
	defer conn.Close()

	conn.WriteJSON(map[string]any{"dataset": []any{}, "maxEpochs": 1})
	var ev struct{ Error string }
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(ev.Error, "dataset") {
		t.Errorf("error = %q", ev.Error)
	}
}
