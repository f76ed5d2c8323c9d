/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"
	"flag"
	"log"

	"github.com/carverauto/printradar/cmd/printradar/app"
)

func main() {
	configPath := flag.String("config", "/etc/printradar/printradar.json", "Path to printradar config file")
	migrateOnly := flag.Bool("migrate-only", false, "Apply database migrations and exit")
	flag.Parse()

	opts := app.Options{
		ConfigPath:  *configPath,
		MigrateOnly: *migrateOnly,
	}

	if err := app.Run(context.Background(), opts); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}
