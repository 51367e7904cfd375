package blobstore

import "carmodel-inventory/internal/config"

// Open returns the store selected by cfg.BlobDriver.
func Open(cfg *config.Store) (Store, error) {
	if cfg.BlobDriver == config.BlobDriverMinio {
		s, err := NewMinioStore(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	s, err := NewFSStore(cfg.BlobDir)
	if err != nil {
		return nil, err
	}
	return s, nil
}
