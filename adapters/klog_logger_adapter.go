package adapters

import "k8s.io/klog/v2"

// KlogLoggerAdapter routes logs through klog. Debug messages are emitted
// at the configured verbosity so they only show up with -v set high enough.
type KlogLoggerAdapter struct {
	debugVerbosity klog.Level
}

var _ LoggerAdapter = (*KlogLoggerAdapter)(nil)

// NewKlogLoggerAdapter creates a klog-backed logger. Debug output requires
// klog verbosity of at least debugVerbosity.
func NewKlogLoggerAdapter(debugVerbosity klog.Level) *KlogLoggerAdapter {
	return &KlogLoggerAdapter{debugVerbosity: debugVerbosity}
}

func (k *KlogLoggerAdapter) Debug(message string, args ...any) {
	klog.V(k.debugVerbosity).Infof("[HitProxy] "+message, args...)
}

func (k *KlogLoggerAdapter) Info(message string, args ...any) {
	klog.Infof("[HitProxy] "+message, args...)
}

func (k *KlogLoggerAdapter) Warn(message string, args ...any) {
	klog.Warningf("[HitProxy] "+message, args...)
}

func (k *KlogLoggerAdapter) Error(message string, args ...any) {
	klog.Errorf("[HitProxy] "+message, args...)
}
