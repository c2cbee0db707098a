package glfx

// QuadVertexShader maps the full-screen quad to clip space and passes
// texture coordinates in v_uv. Custom programs drawing the quad can reuse it.
const QuadVertexShader = `#version 410 core
in vec2 a_position;
out vec2 v_uv;

void main() {
    v_uv = a_position * 0.5 + 0.5;
    gl_Position = vec4(a_position, 0.0, 1.0);
}
`

const copyFragmentShader = `#version 410 core
in vec2 v_uv;
out vec4 fragColor;

uniform sampler2D u_source;

void main() {
    fragColor = texture(u_source, v_uv);
}
`

const colorFragmentShader = `#version 410 core
in vec2 v_uv;
out vec4 fragColor;

uniform vec4 u_color;

void main() {
    fragColor = u_color;
}
`

// The tap loop bound must be a compile time constant; it matches
// 2*MaxBlurRadius.
const blurFragmentShader = `#version 410 core
in vec2 v_uv;
out vec4 fragColor;

uniform sampler2D u_source;
uniform vec2 u_step;
uniform float u_radius;

const int MAX_TAPS = 64;

void main() {
    int taps = int(ceil(2.0 * u_radius));
    vec4 sum = vec4(0.0);
    float total = 0.0;
    for (int i = -MAX_TAPS; i <= MAX_TAPS; i++) {
        if (abs(i) > taps) {
            continue;
        }
        float x = float(i);
        float w = exp(-0.5 * x * x / (u_radius * u_radius));
        sum += texture(u_source, v_uv + u_step * x) * w;
        total += w;
    }
    fragColor = sum / total;
}
`

const modulateFragmentShader = `#version 410 core
in vec2 v_uv;
out vec4 fragColor;

uniform sampler2D u_source;
uniform float u_brightness;
uniform float u_saturation;
uniform float u_hue;
uniform float u_lightness;
uniform vec3 u_tint;

vec3 rgb2hsl(vec3 c) {
    float hi = max(c.r, max(c.g, c.b));
    float lo = min(c.r, min(c.g, c.b));
    float l = (hi + lo) * 0.5;
    if (hi == lo) {
        return vec3(0.0, 0.0, l);
    }
    float d = hi - lo;
    float s = l > 0.5 ? d / (2.0 - hi - lo) : d / (hi + lo);
    float h;
    if (hi == c.r) {
        h = (c.g - c.b) / d + (c.g < c.b ? 6.0 : 0.0);
    } else if (hi == c.g) {
        h = (c.b - c.r) / d + 2.0;
    } else {
        h = (c.r - c.g) / d + 4.0;
    }
    return vec3(h / 6.0, s, l);
}

float hue2rgb(float p, float q, float t) {
    t = fract(t);
    if (t < 1.0 / 6.0) return p + (q - p) * 6.0 * t;
    if (t < 0.5) return q;
    if (t < 2.0 / 3.0) return p + (q - p) * (2.0 / 3.0 - t) * 6.0;
    return p;
}

vec3 hsl2rgb(vec3 hsl) {
    if (hsl.y == 0.0) {
        return vec3(hsl.z);
    }
    float q = hsl.z < 0.5 ? hsl.z * (1.0 + hsl.y) : hsl.z + hsl.y - hsl.z * hsl.y;
    float p = 2.0 * hsl.z - q;
    return vec3(
        hue2rgb(p, q, hsl.x + 1.0 / 3.0),
        hue2rgb(p, q, hsl.x),
        hue2rgb(p, q, hsl.x - 1.0 / 3.0));
}

void main() {
    vec4 c = texture(u_source, v_uv);
    vec3 hsl = rgb2hsl(c.rgb);
    hsl.x = fract(hsl.x + u_hue / 360.0);
    hsl.z = clamp(hsl.z + u_lightness, 0.0, 1.0);
    vec3 rgb = hsl2rgb(hsl);
    float lum = dot(rgb, vec3(0.2126, 0.7152, 0.0722));
    rgb = clamp(mix(vec3(lum), rgb, u_saturation), 0.0, 1.0);
    fragColor = vec4(clamp(rgb * u_brightness * u_tint, 0.0, 1.0), c.a);
}
`

const gammaFragmentShader = `#version 410 core
in vec2 v_uv;
out vec4 fragColor;

uniform sampler2D u_source;
uniform float u_in;
uniform float u_out;

void main() {
    vec4 c = texture(u_source, v_uv);
    float e = max(u_out, 1e-4) / max(u_in, 1e-4);
    fragColor = vec4(clamp(pow(max(c.rgb, 0.0), vec3(e)), 0.0, 1.0), c.a);
}
`

const linearFragmentShader = `#version 410 core
in vec2 v_uv;
out vec4 fragColor;

uniform sampler2D u_source;
uniform vec4 u_multiply;
uniform vec4 u_add;

void main() {
    vec4 c = texture(u_source, v_uv) * u_multiply + u_add;
    fragColor = vec4(clamp(c.rgb, 0.0, 1.0), clamp(c.a, 0.0, 1.0));
}
`

const lutFragmentShader = `#version 410 core
in vec2 v_uv;
out vec4 fragColor;

uniform sampler2D u_source;
uniform sampler2D u_lut;

void main() {
    vec4 c = texture(u_source, v_uv);
    float lum = dot(c.rgb, vec3(0.2126, 0.7152, 0.0722));
    float mapped = texture(u_lut, vec2((lum * 255.0 + 0.5) / 256.0, 0.5)).r;
    float scale = lum > 1e-5 ? mapped / lum : 0.0;
    fragColor = vec4(clamp(c.rgb * scale, 0.0, 1.0), c.a);
}
`
