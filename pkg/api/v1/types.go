package v1

import metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

type JailSpec struct {
	// Relocate is the path prefix the environment will live under
	// after deployment.
	Relocate string `json:"relocate,omitempty"`
	// Repository is the directory or URL holding the binary
	// packages.
	Repository string `json:"repository,omitempty"`
	// Include and Exclude name the pattern files driving package
	// selection.
	Include string `json:"include,omitempty"`
	Exclude string `json:"exclude,omitempty"`
	// Track is the path the maintenance track file is written to.
	Track string `json:"track,omitempty"`
	// SystemSitePackages exposes the global site-packages inside
	// the environment.
	SystemSitePackages bool `json:"systemSitePackages,omitempty"`
	// NoRelocateShebang lists glob patterns for files whose shebang
	// must be kept.
	NoRelocateShebang []string `json:"noRelocateShebang,omitempty"`
}

type Jail struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec JailSpec `json:"spec"`
}
