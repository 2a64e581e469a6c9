package network

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashMethodNameIsStableAcrossCalls(t *testing.T) {
	require.Equal(t, HashMethodName("Svc.Method"), HashMethodName("Svc.Method"))
	require.NotEqual(t, HashMethodName("Svc.MethodA"), HashMethodName("Svc.MethodB"))
}

func TestRegistryLookupResolvesRegisteredMethod(t *testing.T) {
	registry := NewRegistry()
	svc := newEchoService()
	registry.RegisterService(svc)

	methodID := HashMethodName("EchoService.Echo")
	gotSvc, gotMethod, ok := registry.Lookup(methodID)
	require.True(t, ok)
	require.Same(t, svc, gotSvc)
	require.Equal(t, "EchoService.Echo", gotMethod.FullName)
}

func TestRegistryLookupMissReturnsFalse(t *testing.T) {
	registry := NewRegistry()
	_, _, ok := registry.Lookup(HashMethodName("Nothing.Registered"))
	require.False(t, ok)
}

func TestRegistryRejectsDuplicateMethodID(t *testing.T) {
	registry := NewRegistry()
	svc := newEchoService()
	registry.RegisterService(svc)
	registry.RegisterService(svc) // re-registering the same service must not panic or overwrite silently

	methodID := HashMethodName("EchoService.Echo")
	_, method, ok := registry.Lookup(methodID)
	require.True(t, ok)
	require.Equal(t, "EchoService.Echo", method.FullName)
}
