package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/warehouse-be/internal/adapters/storage"
	"github.com/ammerola/warehouse-be/internal/core/domain"
	"github.com/ammerola/warehouse-be/internal/core/ports"
	"github.com/ammerola/warehouse-be/internal/handlers"
	"github.com/ammerola/warehouse-be/internal/pkg/spreadsheet"
	"github.com/ammerola/warehouse-be/test/helpers"
	"github.com/ammerola/warehouse-be/test/mocks"
)

type importFixture struct {
	routes     *handlers.Routes
	warehouses *mocks.MockWarehouseService
	queue      *mocks.MockTaskQueue
	files      *storage.LocalStorage
}

func newImportFixture(t *testing.T) importFixture {
	ctrl := gomock.NewController(t)
	f := importFixture{
		warehouses: mocks.NewMockWarehouseService(ctrl),
		queue:      mocks.NewMockTaskQueue(ctrl),
		files:      storage.NewLocalStorage(t.TempDir(), helpers.TestLogger()),
	}
	f.routes = &handlers.Routes{
		Import: handlers.NewImportHandler(f.warehouses, f.files, f.queue, 5<<20, helpers.TestLogger()),
	}
	return f
}

func workbook(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, spreadsheet.WriteInventory(&buf, []*domain.InventoryItem{
		{Name: "Crate", Quantity: 3},
	}))
	return buf.Bytes()
}

func uploadRequest(t *testing.T, warehouseID uuid.UUID, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/warehouses/"+warehouseID.String()+"/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func (f importFixture) do(req *http.Request) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	f.routes.Register(mux)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestImportHandler_ImportWarehouse(t *testing.T) {
	id := uuid.New()

	t.Run("successful_upload_is_queued", func(t *testing.T) {
		f := newImportFixture(t)
		f.warehouses.EXPECT().GetWarehouse(gomock.Any(), id).Return(&domain.Warehouse{ID: id, Name: "North"}, nil)

		var queued ports.ImportJob
		f.queue.EXPECT().EnqueueImport(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, job ports.ImportJob) (string, error) {
				queued = job
				return "task-1", nil
			})

		content := workbook(t)
		w := f.do(uploadRequest(t, id, "stock.xlsx", content))

		require.Equal(t, http.StatusAccepted, w.Code)
		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "task-1", resp["taskId"])
		assert.Equal(t, "queued", resp["status"])

		assert.Equal(t, id, queued.WarehouseID)
		assert.Equal(t, "stock.xlsx", queued.Filename)
		stored, err := f.files.Download(context.Background(), queued.ObjectKey)
		require.NoError(t, err)
		assert.Equal(t, content, stored)
	})

	t.Run("enqueue_failure_removes_upload", func(t *testing.T) {
		f := newImportFixture(t)
		f.warehouses.EXPECT().GetWarehouse(gomock.Any(), id).Return(&domain.Warehouse{ID: id}, nil)
		f.queue.EXPECT().EnqueueImport(gomock.Any(), gomock.Any()).Return("", errors.New("redis down"))

		w := f.do(uploadRequest(t, id, "stock.xlsx", workbook(t)))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		objects, err := f.files.List(context.Background(), storage.ImportPrefix())
		require.NoError(t, err)
		assert.Empty(t, objects)
	})

	t.Run("rejects_non_spreadsheet", func(t *testing.T) {
		f := newImportFixture(t)
		f.warehouses.EXPECT().GetWarehouse(gomock.Any(), id).Return(&domain.Warehouse{ID: id}, nil)

		w := f.do(uploadRequest(t, id, "notes.txt", []byte("hello")))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown_warehouse", func(t *testing.T) {
		f := newImportFixture(t)
		f.warehouses.EXPECT().GetWarehouse(gomock.Any(), id).Return(nil, domain.NotFound("warehouse", id))

		w := f.do(uploadRequest(t, id, "stock.xlsx", workbook(t)))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestImportHandler_ImportStatus(t *testing.T) {
	t.Run("reports_task_state", func(t *testing.T) {
		f := newImportFixture(t)
		f.queue.EXPECT().TaskStatus(gomock.Any(), "task-1").Return(&ports.TaskStatus{
			TaskID: "task-1",
			Type:   "inventory:import",
			Queue:  "default",
			State:  "completed",
			Result: json.RawMessage(`{"created":3}`),
		}, nil)

		w := serve(t, f.routes, http.MethodGet, "/api/v1/import/status/task-1", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var status ports.TaskStatus
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
		assert.Equal(t, "completed", status.State)
		assert.JSONEq(t, `{"created":3}`, string(status.Result))
	})

	t.Run("unknown_task", func(t *testing.T) {
		f := newImportFixture(t)
		f.queue.EXPECT().TaskStatus(gomock.Any(), "missing").Return(nil, domain.NotFound("task", "missing"))

		w := serve(t, f.routes, http.MethodGet, "/api/v1/import/status/missing", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
