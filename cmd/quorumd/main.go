// Command quorumd is a small demo harness for the quorum state manager.
// It wires a QuorumState to a JSON file-backed election store, an
// in-memory voter set, and a local log tail, then runs an event loop that
// pokes the manager the way an outer Raft engine would - without
// implementing the Raft wire protocol itself, which is out of scope for
// this component.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/krantius/kraft-quorum/config"
	"github.com/krantius/kraft-quorum/logtail"
	"github.com/krantius/kraft-quorum/quorum"
	"github.com/krantius/kraft-quorum/quorum/filestore"
	"github.com/krantius/kraft-quorum/quorum/memview"
	"github.com/krantius/kraft-quorum/shared/logging"
)

func main() {
	configPath := flag.String("config", "quorumd.json", "path to the node's JSON config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}

	directoryID, err := cfg.DirectoryID()
	if err != nil {
		log.WithError(err).Fatal("failed to parse local directory id")
	}

	voters := make([]memview.Voter, 0, len(cfg.Voters))
	for _, v := range cfg.Voters {
		endpoints := make(quorum.Endpoints, 0, len(v.Listeners))
		for _, l := range v.Listeners {
			endpoints = append(endpoints, quorum.Endpoint{Listener: l})
		}
		key := quorum.ReplicaKey{ID: v.ID, DirectoryID: directoryID}
		if v.ID != valueOr(cfg.LocalID, -1) {
			// Peers get the zero directory id as a placeholder; only the
			// local replica's real directory id matters for self-votes.
			key = quorum.ReplicaKey{ID: v.ID}
		}
		voters = append(voters, memview.Voter{Key: key, Endpoints: endpoints})
	}

	view := memview.New(memview.NewVoterSet(voters...))
	store := filestore.New(cfg.StatePath)
	logTail := logtail.New()

	localListeners := make(quorum.Endpoints, 0, len(cfg.LocalListeners))
	for _, l := range cfg.LocalListeners {
		localListeners = append(localListeners, quorum.Endpoint{Listener: l})
	}

	qCfg := quorum.Config{
		LocalID:                    cfg.LocalID,
		LocalDirectoryID:           directoryID,
		LocalListeners:             localListeners,
		LocalSupportedKRaftVersion: quorum.VersionRange{Min: 0, Max: 1},
		ElectionTimeoutMs:          cfg.ElectionTimeoutMs,
		FetchTimeoutMs:             cfg.FetchTimeoutMs,
	}

	logger := logging.New(fmt.Sprintf("node-%d", valueOr(cfg.LocalID, -1)))
	qs := quorum.New(qCfg, store, view, quorum.SystemClock{}, quorum.NewRandSource(time.Now().UnixNano()), logger)

	if err := qs.Initialize(logTail.EndOffsetAndEpoch()); err != nil {
		log.WithError(err).Fatal("failed to initialize quorum state")
	}

	r := mux.NewRouter()
	r.Path("/status").Methods(http.MethodGet).HandlerFunc(qs.StatusHandler())

	srv := &http.Server{Addr: cfg.StatusAddr, Handler: r}
	go func() {
		log.Infof("status server listening on %s", cfg.StatusAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("status server exited")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go electionLoop(qs, cfg.ElectionTimeoutMs, stop)

	<-stop
	log.Info("quorumd exiting")
}

// electionLoop is a simple timer-driven election countdown: on every
// tick, if we are a voter and not the leader, call for an election. A real engine
// would also
// listen for AppendEntries/RequestVote RPCs to reset this timer and vote;
// that network surface is out of scope for this component.
func electionLoop(qs *quorum.QuorumState, electionTimeoutMs int, stop <-chan os.Signal) {
	if electionTimeoutMs <= 0 {
		return
	}

	timer := time.NewTimer(time.Duration(electionTimeoutMs) * time.Millisecond)
	defer timer.Stop()

	for {
		select {
		case <-timer.C:
			if !qs.IsLeader() && qs.IsVoter() {
				if err := qs.TransitionToCandidate(); err != nil {
					log.WithError(err).Warn("failed to transition to candidate")
				}
			}
			timer.Reset(time.Duration(electionTimeoutMs) * time.Millisecond)
		case <-stop:
			return
		}
	}
}

func valueOr(v *int32, fallback int32) int32 {
	if v == nil {
		return fallback
	}
	return *v
}
