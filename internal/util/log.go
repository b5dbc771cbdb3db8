package util

const (
	// package keys
	PackageKey = "package"

	PackageMain     = "main"
	PackagePipeline = "pipeline"
	PackageStore    = "store"
	PackageManifest = "manifest"
	PackageGallery  = "gallery"

	// component keys
	ComponentKey = "component"

	ComponentMain       = "main"
	ComponentUpload     = "upload"
	ComponentDelete     = "delete"
	ComponentProcessor  = "image processor"
	ComponentUploader   = "uploader"
	ComponentObjStore   = "object storage"
	ComponentWebService = "web service"
	ComponentWebHandler = "web handler"

	// service keys
	ServiceKey = "service"

	ServiceGallery = "pellicle"
)
