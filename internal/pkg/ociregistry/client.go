// Copyright (c) Contributors to the Flatpak project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

// Package ociregistry is the OCI registry collaborator used by the
// transaction's AddInstallOCI intake path: given a "docker://" or
// "oci://"-style reference, resolve the image for a tag and read the
// flatpak-specific annotations recording which ref/commit it packages.
package ociregistry

import (
	"context"
	"fmt"

	"github.com/containers/image/v5/docker"
	"github.com/containers/image/v5/signature"
	"github.com/containers/image/v5/types"
	"github.com/google/go-containerregistry/pkg/name"
	"github.com/google/go-containerregistry/pkg/v1/remote"
	ispec "github.com/opencontainers/image-spec/specs-go/v1"

	useragent "github.com/pkestene/flatpak/pkg/util/user-agent"
)

// Annotation keys this module stores on the images it publishes, recording
// which flatpak ref and OSTree-style commit checksum the image contains.
const (
	AnnotationRef    = "org.flatpak.ref"
	AnnotationCommit = "org.flatpak.commit"
)

var ErrInvalidOciImage = fmt.Errorf("oci image is missing required flatpak annotations")

// Registry opens a session against an OCI image reference. Client is the
// production implementation; tests substitute an in-memory fake.
type Registry interface {
	Open(ctx context.Context, uri string) (Session, error)
}

// Session is a registry reference resolved from a single Open call, ready
// to have a tag's manifest chosen from it.
type Session interface {
	ChooseImage(ctx context.Context, tag string) (Manifest, error)
}

// Client opens registry sessions. It carries no state beyond the shared
// keychain, so the zero value is ready to use.
type Client struct {
	keychain flatpakKeychain
}

var _ Registry = (*Client)(nil)

// session is the production Session backed by a real repository
// reference.
type session struct {
	client *Client
	repo   name.Repository
}

var _ Session = (*session)(nil)

// Manifest is a fetched image manifest along with the descriptor and
// annotations needed by the install path.
type Manifest struct {
	digest      string
	annotations map[string]string
}

// NewManifest builds a Manifest directly, for test doubles of Session.
func NewManifest(digest string, annotations map[string]string) Manifest {
	return Manifest{digest: digest, annotations: annotations}
}

// Open validates uri as an OCI image reference (via containers/image's own
// docker transport reference parser, which is stricter about the
// "docker://host/repo" grammar than go-containerregistry's bare-name
// parser) and returns a Session scoped to its repository.
func (c *Client) Open(ctx context.Context, uri string) (Session, error) {
	if _, err := docker.ParseReference("//" + trimScheme(uri)); err != nil {
		return nil, fmt.Errorf("invalid OCI reference %q: %w", uri, err)
	}

	pc, err := defaultPolicyContext()
	if err != nil {
		return nil, err
	}
	defer pc.Destroy()

	repo, err := name.NewRepository(trimScheme(uri))
	if err != nil {
		return nil, fmt.Errorf("invalid OCI reference %q: %w", uri, err)
	}

	return &session{client: c, repo: repo}, nil
}

func trimScheme(uri string) string {
	for _, scheme := range []string{"docker://", "oci://"} {
		if len(uri) > len(scheme) && uri[:len(scheme)] == scheme {
			return uri[len(scheme):]
		}
	}
	return uri
}

// ChooseImage fetches the manifest for tag and returns it wrapped with its
// annotations.
func (s *session) ChooseImage(ctx context.Context, tag string) (Manifest, error) {
	ref := s.repo.Tag(tag)

	desc, err := remote.Get(ref,
		remote.WithContext(ctx),
		remote.WithAuthFromKeychain(&s.client.keychain),
		remote.WithUserAgent(useragent.Value()),
	)
	if err != nil {
		return Manifest{}, fmt.Errorf("while fetching manifest for %s: %w", ref, err)
	}

	img, err := desc.Image()
	if err != nil {
		return Manifest{}, fmt.Errorf("while reading image for %s: %w", ref, err)
	}

	m, err := img.Manifest()
	if err != nil {
		return Manifest{}, fmt.Errorf("while parsing manifest for %s: %w", ref, err)
	}

	ann := make(map[string]string, len(m.Annotations))
	for k, v := range m.Annotations {
		ann[k] = v
	}

	return Manifest{digest: desc.Digest.String(), annotations: ann}, nil
}

// Annotations returns the manifest's annotation map.
func (m Manifest) Annotations() map[string]string { return m.annotations }

// Digest returns the manifest's content digest.
func (m Manifest) Digest() string { return m.digest }

// ParseCommitAnnotations extracts the flatpak ref and commit checksum from
// an image's annotations. It falls back to the OCI image-spec's standard
// revision annotation for the checksum if the flatpak-specific one is
// absent, but the ref annotation is always required.
func ParseCommitAnnotations(ann map[string]string) (ref, checksum string, err error) {
	ref = ann[AnnotationRef]
	if ref == "" {
		return "", "", ErrInvalidOciImage
	}

	checksum = ann[AnnotationCommit]
	if checksum == "" {
		checksum = ann[ispec.AnnotationRevision]
	}

	return ref, checksum, nil
}

// defaultPolicyContext builds the permissive signature-verification policy
// this module applies to registry reads: flatpak refs are already
// content-addressed by commit, so image-signature verification is left to
// the remote/catalog layer rather than enforced at the transport level
// here.
func defaultPolicyContext() (*signature.PolicyContext, error) {
	policy, err := signature.DefaultPolicy(&types.SystemContext{})
	if err != nil {
		return nil, fmt.Errorf("while building default signature policy: %w", err)
	}
	return signature.NewPolicyContext(policy)
}
