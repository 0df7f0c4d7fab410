package server

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"jobsift/internal/config"
	"jobsift/internal/errors"

	"github.com/fsnotify/fsnotify"
)

// CertReloader watches certificate files for changes and serves the freshest
// certificate to new TLS handshakes.
type CertReloader struct {
	mu sync.RWMutex

	certFile string
	keyFile  string

	cert        *tls.Certificate
	reloadCount int64

	fsWatcher     *fsnotify.Watcher
	debounceDelay time.Duration
	debounceTimer *time.Timer

	stopChan chan struct{}
	running  bool

	logger *errors.Logger
}

// NewCertReloader creates a reloader and loads the initial certificate pair
func NewCertReloader(tlsCfg config.TLSConfig, logger *errors.Logger) (*CertReloader, error) {
	if tlsCfg.CertFile == "" || tlsCfg.KeyFile == "" {
		return nil, fmt.Errorf("certificate auto-reload requires certFile and keyFile paths")
	}

	debounce := tlsCfg.AutoReload.DebounceDelay
	if debounce == 0 {
		debounce = time.Second
	}

	cr := &CertReloader{
		certFile:      tlsCfg.CertFile,
		keyFile:       tlsCfg.KeyFile,
		debounceDelay: debounce,
		stopChan:      make(chan struct{}),
		logger:        logger,
	}

	if err := cr.reload(); err != nil {
		return nil, fmt.Errorf("failed to load initial certificate: %w", err)
	}

	return cr, nil
}

// Start begins watching the certificate files for changes
func (cr *CertReloader) Start() error {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	if cr.running {
		return fmt.Errorf("certificate reloader is already running")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	cr.fsWatcher = watcher

	// Watch the parent directories rather than the files themselves so
	// atomic replacements (rename over the old file, Kubernetes secret
	// mounts) are still observed.
	dirs := map[string]bool{}
	for _, file := range []string{cr.certFile, cr.keyFile} {
		dirs[filepath.Dir(file)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			if closeErr := watcher.Close(); closeErr != nil {
				cr.logger.LogError(closeErr, "Failed to close file watcher during cleanup")
			}
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
	}

	cr.running = true
	go cr.watchLoop()

	cr.logger.Info("Certificate file watcher started",
		"cert_file", cr.certFile,
		"key_file", cr.keyFile,
		"debounce_delay", cr.debounceDelay.String())

	return nil
}

// watchLoop processes file system events until Stop is called
func (cr *CertReloader) watchLoop() {
	for {
		select {
		case event, ok := <-cr.fsWatcher.Events:
			if !ok {
				return
			}
			if cr.isWatchedFile(event.Name) {
				cr.scheduleReload()
			}
		case err, ok := <-cr.fsWatcher.Errors:
			if !ok {
				return
			}
			cr.logger.LogError(err, "Certificate file watcher error")
		case <-cr.stopChan:
			return
		}
	}
}

// isWatchedFile reports whether an event path names one of the watched files
func (cr *CertReloader) isWatchedFile(path string) bool {
	base := filepath.Base(path)
	return base == filepath.Base(cr.certFile) || base == filepath.Base(cr.keyFile)
}

// scheduleReload debounces bursts of file events into a single reload
func (cr *CertReloader) scheduleReload() {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	if cr.debounceTimer != nil {
		cr.debounceTimer.Stop()
	}
	cr.debounceTimer = time.AfterFunc(cr.debounceDelay, func() {
		if err := cr.reload(); err != nil {
			cr.logger.LogError(err, "Failed to reload TLS certificates")
			return
		}
		cr.logger.Info("TLS certificates reloaded successfully")
	})
}

// reload loads the certificate pair and swaps it in on success
func (cr *CertReloader) reload() error {
	cert, err := tls.LoadX509KeyPair(cr.certFile, cr.keyFile)
	if err != nil {
		return fmt.Errorf("failed to load server cert/key: %w", err)
	}

	cr.mu.Lock()
	cr.cert = &cert
	cr.reloadCount++
	cr.mu.Unlock()

	return nil
}

// GetCertificate serves the current certificate to TLS handshakes
func (cr *CertReloader) GetCertificate(_ *tls.ClientHelloInfo) (*tls.Certificate, error) {
	cr.mu.RLock()
	defer cr.mu.RUnlock()

	if cr.cert == nil {
		return nil, fmt.Errorf("no certificate loaded")
	}
	return cr.cert, nil
}

// CheckExpiry returns the time until the current certificate expires
func (cr *CertReloader) CheckExpiry() (time.Duration, error) {
	cr.mu.RLock()
	defer cr.mu.RUnlock()

	if cr.cert == nil || len(cr.cert.Certificate) == 0 {
		return 0, fmt.Errorf("no certificate loaded")
	}

	leaf := cr.cert.Leaf
	if leaf == nil {
		parsed, err := x509.ParseCertificate(cr.cert.Certificate[0])
		if err != nil {
			return 0, fmt.Errorf("failed to parse certificate: %w", err)
		}
		leaf = parsed
	}

	return time.Until(leaf.NotAfter), nil
}

// WatchedFiles returns the files the reloader watches
func (cr *CertReloader) WatchedFiles() []string {
	return []string{cr.certFile, cr.keyFile}
}

// ReloadCount returns the number of successful certificate loads
func (cr *CertReloader) ReloadCount() int64 {
	cr.mu.RLock()
	defer cr.mu.RUnlock()
	return cr.reloadCount
}

// Stop shuts down the watcher
func (cr *CertReloader) Stop() error {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	if !cr.running {
		return nil
	}
	cr.running = false

	close(cr.stopChan)
	if cr.debounceTimer != nil {
		cr.debounceTimer.Stop()
	}
	if cr.fsWatcher != nil {
		return cr.fsWatcher.Close()
	}
	return nil
}
