package cmd

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/gorilla/mux"
	"github.com/jsphweid/sfdex/chunk"
	"github.com/jsphweid/sfdex/constants"
	"github.com/jsphweid/sfdex/file"
	"github.com/jsphweid/sfdex/model"
	"github.com/jsphweid/sfdex/sample"
	"github.com/jsphweid/sfdex/serialized"
	"github.com/jsphweid/sfdex/util"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	serveAddr    string
	servePattern string
)

type catalog struct {
	mu     sync.RWMutex
	inputs model.FileNumToInput
}

func (c *catalog) set(inputs model.FileNumToInput) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inputs = inputs
}

func (c *catalog) get(num uint32) (model.Input, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	input, ok := c.inputs[num]
	return input, ok
}

func (c *catalog) entries() []model.CatalogEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	res := make([]model.CatalogEntry, 0, len(c.inputs))
	for _, num := range util.GetKeys(c.inputs) {
		input := c.inputs[num]
		res = append(res, model.CatalogEntry{Num: num, Name: filepath.Base(input.Name()), Paths: input.Paths})
	}
	return res
}

var served = &catalog{}

var rescan = debounce.New(constants.RescanDelayMillis * time.Millisecond)

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", constants.GetAddr(), "address to listen on")
	serveCmd.Flags().StringVar(&servePattern, "pattern", "*", "glob under MEDIA_PATH selecting the files to serve")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves decoded files over http",
	Long:  `Serves the serialized files under MEDIA_PATH as JSON`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

// LoadServeFiles rebuilds the catalog from MEDIA_PATH.
func LoadServeFiles() error {
	inputs, err := file.Gather([]string{filepath.Join(constants.GetMediaDir(), servePattern)})
	if err != nil {
		return err
	}
	served.set(file.CreateFileNumMap(inputs))
	logrus.WithFields(logrus.Fields{"dir": constants.GetMediaDir(), "inputs": len(inputs)}).Info("loaded catalog")
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Warn("could not write response")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, model.ErrorResponse{Error: err.Error()})
}

func lookupInput(w http.ResponseWriter, r *http.Request) (model.Input, bool) {
	num, err := strconv.ParseUint(mux.Vars(r)["num"], 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(err, "document number"))
		return model.Input{}, false
	}
	input, ok := served.get(uint32(num))
	if !ok {
		writeError(w, http.StatusNotFound, errors.Wrapf(model.ErrNotFound, "document %d", num))
		return model.Input{}, false
	}
	return input, true
}

func HandleDocuments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.CatalogResponse{Documents: served.entries()})
}

func HandleDocument(w http.ResponseWriter, r *http.Request) {
	input, ok := lookupInput(w, r)
	if !ok {
		return
	}

	doc, err := serialized.DecodeFiles(input.Paths)
	if err != nil {
		logrus.WithField("input", input.Name()).WithError(err).Warn("could not decode")
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func HandleObject(w http.ResponseWriter, r *http.Request) {
	input, ok := lookupInput(w, r)
	if !ok {
		return
	}
	pathID, err := strconv.ParseInt(mux.Vars(r)["pathID"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(err, "path id"))
		return
	}

	s, err := chunk.Open(input.Paths)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	defer s.Close()

	doc, err := serialized.Decode(s)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	obj, ok := doc.Objects[pathID]
	if !ok {
		writeError(w, http.StatusNotFound, errors.Wrapf(model.ErrNotFound, "path id %d", pathID))
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", strconv.FormatUint(uint64(obj.ByteSize), 10))
	if _, err := sample.Object(s, doc, pathID, w); err != nil {
		logrus.WithFields(logrus.Fields{"input": input.Name(), "path_id": pathID}).WithError(err).Warn("could not copy object")
	}
}

// HandleRescan schedules a catalog rebuild. Requests that arrive close
// together share one rebuild.
func HandleRescan(w http.ResponseWriter, r *http.Request) {
	rescan(func() {
		if err := LoadServeFiles(); err != nil {
			logrus.WithError(err).Error("rescan failed")
		}
	})
	w.WriteHeader(http.StatusAccepted)
}

func NewRouter() *mux.Router {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/documents", HandleDocuments).Methods("GET")
	router.HandleFunc("/documents/{num:[0-9]+}", HandleDocument).Methods("GET")
	router.HandleFunc("/documents/{num:[0-9]+}/objects/{pathID:-?[0-9]+}", HandleObject).Methods("GET")
	router.HandleFunc("/rescan", HandleRescan).Methods("POST")
	return router
}

func serve() error {
	if err := LoadServeFiles(); err != nil {
		return err
	}

	handler := cors.Default().Handler(NewRouter())
	logrus.WithField("addr", serveAddr).Info("listening")
	return http.ListenAndServe(serveAddr, handler)
}
