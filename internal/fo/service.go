package fo

// Classifier maps a filename to a category label.
type Classifier interface {
	Classify(filename string) string
}

// Service is the orchestration layer for organize and undo operations.
type Service struct {
	fsmgr      FilesystemManager
	classifier Classifier
	logger     Logger
	clock      Clock
}

// NewService creates a Service with the provided dependencies.
func NewService(fsmgr FilesystemManager, classifier Classifier, logger Logger, clock Clock) *Service {
	return &Service{
		fsmgr:      fsmgr,
		classifier: classifier,
		logger:     logger,
		clock:      clock,
	}
}
