package logging

import "github.com/sirupsen/logrus"

// DefaultLog adapts the package-wide logrus logger to a small,
// dependency-free logging interface other packages can accept without
// importing logrus directly.
type DefaultLog struct{}

func (dl *DefaultLog) Error(args ...interface{})            { logrus.Error(args...) }
func (dl *DefaultLog) Errorf(f string, args ...interface{}) { logrus.Errorf(f, args...) }
func (dl *DefaultLog) Warn(args ...interface{})             { logrus.Warn(args...) }
func (dl *DefaultLog) Warnf(f string, args ...interface{})  { logrus.Warnf(f, args...) }
func (dl *DefaultLog) Info(args ...interface{})             { logrus.Info(args...) }
func (dl *DefaultLog) Infof(f string, args ...interface{})  { logrus.Infof(f, args...) }
func (dl *DefaultLog) Debug(args ...interface{})            { logrus.Debug(args...) }
func (dl *DefaultLog) Debugf(f string, args ...interface{}) { logrus.Debugf(f, args...) }
