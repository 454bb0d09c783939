// Package devkit resolves the ambient build environment: the development-kit
// installation that supplies the JNI headers, plus the host OS and
// architecture. Resolution happens at most once per process and is cached.
package devkit
